package veil

import "strings"

// Processor rewrites one line at a time. It holds no per-line state, so a
// single Processor may be shared by concurrent callers as long as each call
// passes whatever salt its windowing policy dictates.
type Processor struct {
	rotator Rotator
	table   *Table
	words   bool
}

// NewProcessor builds a Processor. table may be nil when words is false; with
// words enabled the word table is required.
func NewProcessor(rotator Rotator, table *Table, words bool) *Processor {
	if words && table == nil {
		panic("veil: word encoding requested without a word table")
	}
	return &Processor{rotator: rotator, table: table, words: words}
}

// Process replaces every address-shaped token in line and returns the
// reassembled line. Non-address text, including multi-byte characters, is
// preserved verbatim. An empty salt maps every address to 0.0.0.0. Errors
// are per-line: the caller decides whether to skip or abort the stream.
func (p *Processor) Process(line string, salt []byte) (string, error) {
	matches, segments := Scan(line)
	if len(matches) == 0 {
		return line, nil
	}

	var b strings.Builder
	b.Grow(len(line))
	for i, seg := range segments {
		b.WriteString(seg)
		if i >= len(matches) {
			continue
		}
		addr, err := ParseAddr(matches[i])
		if err != nil {
			return "", err
		}
		rotated, err := p.rotator.Rotate(addr, salt)
		if err != nil {
			return "", err
		}
		if p.words {
			b.WriteString(p.table.Encode(rotated))
		} else {
			b.WriteString(rotated.String())
		}
	}
	return b.String(), nil
}
