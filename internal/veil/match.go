package veil

import "regexp"

// Matching is purely syntactic: four dot-separated runs of 1 to 3 digits.
// Numeric range is NOT checked here, so "999.999.999.999" matches; ParseAddr
// decides what to do with such tokens.
var addrPattern = regexp.MustCompile(`[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`)

// Scan finds every address-shaped token in line, leftmost non-overlapping,
// and splits the line at each one. Concatenating segments[0], matches[0],
// segments[1], ... segments[n] reproduces line exactly, and
// len(segments) == len(matches)+1 always holds. Matching operates on the
// string as UTF-8, so segment boundaries never fall inside a multi-byte
// sequence.
func Scan(line string) (matches, segments []string) {
	matches = addrPattern.FindAllString(line, -1)
	segments = addrPattern.Split(line, -1)
	return matches, segments
}
