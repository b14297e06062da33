// Package veil implements the address pseudonymization core: scanning lines
// of text for IPv4-shaped tokens, rotating each address under the current
// window salt, optionally rendering the result as pronounceable words, and
// reassembling the line with all surrounding text preserved byte for byte.
package veil

import (
	"fmt"
	"strconv"
	"strings"
)

// Addr holds the four byte values of an IPv4-shaped token. It is a plain
// value type and is never mutated after parsing.
type Addr [4]byte

func (a Addr) String() string {
	b := make([]byte, 0, 15)
	for i, v := range a {
		if i > 0 {
			b = append(b, '.')
		}
		b = strconv.AppendUint(b, uint64(v), 10)
	}
	return string(b)
}

// OctetRangeError reports a matched token whose digit groups cannot all be
// represented in one byte. The matcher grammar accepts groups up to 999 on
// purpose; the range decision is made here, and the decision is to reject.
type OctetRangeError struct {
	Token string
	Group string
}

func (e *OctetRangeError) Error() string {
	return fmt.Sprintf("address token %q: group %q exceeds 255", e.Token, e.Group)
}

// ParseAddr parses a token produced by the matcher into an Addr. Tokens with
// digit groups above 255 are rejected with an OctetRangeError so the caller
// can skip the line instead of silently emitting a colliding pseudonym.
func ParseAddr(token string) (Addr, error) {
	groups := strings.Split(token, ".")
	if len(groups) != 4 {
		return Addr{}, fmt.Errorf("address token %q: expected 4 groups, got %d", token, len(groups))
	}
	var a Addr
	for i, g := range groups {
		if len(g) == 0 || len(g) > 3 {
			return Addr{}, fmt.Errorf("address token %q: malformed group %q", token, g)
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return Addr{}, fmt.Errorf("address token %q: malformed group %q", token, g)
		}
		if n > 255 {
			return Addr{}, &OctetRangeError{Token: token, Group: g}
		}
		a[i] = byte(n)
	}
	return a, nil
}
