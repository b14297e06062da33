package veil

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// The bundled dataset is an ordered JSON array of 256 two-element string
// arrays: index = byte value, element 0 = even-position word, element 1 =
// odd-position word.
//
//go:embed pgp_wordlist.json
var wordlistJSON []byte

// Table maps every byte value to its pair of words. Loaded once at startup
// and read-only afterwards, so it is safe to share across goroutines.
type Table [256][2]string

var (
	tableOnce sync.Once
	table     *Table
	tableErr  error
)

// LoadTable parses the bundled word list. A malformed dataset is a startup
// failure; callers must not defer the first call past initialization.
func LoadTable() (*Table, error) {
	tableOnce.Do(func() {
		table, tableErr = parseTable(wordlistJSON)
	})
	return table, tableErr
}

func parseTable(data []byte) (*Table, error) {
	var entries [][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("word list: %w", err)
	}
	if len(entries) != 256 {
		return nil, fmt.Errorf("word list: expected 256 entries, got %d", len(entries))
	}
	var t Table
	for i, entry := range entries {
		if len(entry) != 2 {
			return nil, fmt.Errorf("word list: entry %d has %d words, expected 2", i, len(entry))
		}
		if entry[0] == "" || entry[1] == "" {
			return nil, fmt.Errorf("word list: entry %d contains an empty word", i)
		}
		t[i][0] = entry[0]
		t[i][1] = entry[1]
	}
	return &t, nil
}

// Encode renders addr as four dot-joined words, using the even-column word
// for byte positions 0 and 2 and the odd-column word for positions 1 and 3.
// The rendering is one-way by design; only the underlying rotation carries
// the security properties.
func (t *Table) Encode(addr Addr) string {
	var b strings.Builder
	for i, v := range addr {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(t[v][i%2])
	}
	return b.String()
}
