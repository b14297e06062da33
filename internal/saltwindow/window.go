package saltwindow

import (
	"fmt"
	"strconv"
	"time"
)

// ParseWindow parses the salt validity period syntax "<amount>(s|m|h|d)",
// e.g. "60m" or "11d". Days are not part of time.ParseDuration, hence the
// dedicated parser.
func ParseWindow(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid window %q: expected <amount>(s|m|h|d)", s)
	}
	amount, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("invalid window %q: expected <amount>(s|m|h|d)", s)
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid window %q: unknown unit %q", s, s[len(s)-1:])
	}
	return time.Duration(amount) * unit, nil
}
