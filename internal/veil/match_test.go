package veil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ipveil/ipveil/internal/veil"
)

type ScanSuite struct {
	suite.Suite
}

func (s *ScanSuite) TestMatches() {
	matches, segments := veil.Scan("bla 127.0.0.1 blub 255.255.255.255 test")
	s.Equal([]string{"127.0.0.1", "255.255.255.255"}, matches)
	s.Equal([]string{"bla ", " blub ", " test"}, segments)
}

func (s *ScanSuite) TestNoMatches() {
	matches, segments := veil.Scan("nothing to see here")
	s.Empty(matches)
	s.Equal([]string{"nothing to see here"}, segments)
}

func (s *ScanSuite) TestRangeNotChecked() {
	// Matching is purely syntactic.
	matches, _ := veil.Scan("x 999.999.999.999 y")
	s.Equal([]string{"999.999.999.999"}, matches)
}

func (s *ScanSuite) TestReassemblyInvariant() {
	lines := []string{
		"",
		"1.2.3.4",
		"bla 127.0.0.1 blub 255.255.255.255 test",
		"10.0.0.1 10.0.0.2",
		"prefix 999.1.2.3 suffix",
		"192.168.0.1 καὶ 10.10.10.10 δὲν θὰ βρῶ πιὰ στὸ χρυσαφὶ ξέφωτο",
		"1.2.3.4.5.6.7.8",
	}
	for _, line := range lines {
		matches, segments := veil.Scan(line)
		s.Require().Len(segments, len(matches)+1, "line %q", line)

		var b strings.Builder
		for i, seg := range segments {
			b.WriteString(seg)
			if i < len(matches) {
				b.WriteString(matches[i])
			}
		}
		s.Equal(line, b.String())
	}
}

func (s *ScanSuite) TestLongerRuns() {
	// 4-digit runs do not form an address-shaped token as a whole; the match
	// starts inside the run.
	matches, _ := veil.Scan("id=1234.5.6.7")
	s.Equal([]string{"234.5.6.7"}, matches)
}

func TestScanSuite(t *testing.T) {
	suite.Run(t, new(ScanSuite))
}
