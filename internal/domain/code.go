package domain

import (
	"fmt"
	"strconv"
)

// CodeWildcard matches exactly one character of a classification code.
const CodeWildcard = '?'

// FormatCode renders a classification code as its three WGMS digits, keeping
// leading zeros: 38 is "038". Codes outside 0-999 fall back to plain decimal.
func FormatCode(code int) string {
	if code < 0 || code > 999 {
		return strconv.Itoa(code)
	}
	return fmt.Sprintf("%03d", code)
}

// MatchCode reports whether code, in its FormatCode form, matches pattern.
// Each "?" in pattern matches any single character at that position; every
// other character must match exactly. Lengths must be equal, so "6?8" never
// matches a four character pattern or code.
func MatchCode(pattern string, code int) bool {
	s := FormatCode(code)
	if len(pattern) != len(s) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == CodeWildcard {
			continue
		}
		if pattern[i] != s[i] {
			return false
		}
	}
	return true
}

// FilterByCode returns the names of glaciers whose code matches pattern, in
// collection order with duplicates kept. No match yields an empty slice.
func (c *GlacierCollection) FilterByCode(pattern string) []string {
	names := make([]string, 0)
	for i, g := range c.glaciers {
		if MatchCode(pattern, g.Code) {
			names = append(names, c.names[i])
		}
	}
	return names
}

// FilterByCodeNumber is FilterByCode for an exact numeric code.
func (c *GlacierCollection) FilterByCodeNumber(code int) []string {
	return c.FilterByCode(FormatCode(code))
}
