// Package common provides shared utilities for historical years used across the chgis-mcp application.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Year is a signed historical year as published by the gazetteer.
// Negative values are BCE; the gazetteer has no year zero convention of its own.
type Year struct {
	Value int
	Valid bool
}

// ParseYear parses a year string such as "-206", "906" or "+1127".
// Surrounding whitespace is ignored. Anything that is not a plain integer
// yields an invalid Year instead of an error.
func ParseYear(s string) Year {
	str := strings.TrimSpace(s)
	if str == "" || str == "null" {
		return Year{}
	}

	v, err := strconv.Atoi(strings.TrimPrefix(str, "+"))
	if err != nil {
		return Year{}
	}
	return Year{Value: v, Valid: true}
}

// String returns the year as a plain integer, or "" when invalid.
func (y Year) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Value)
}

// Range is a [Begin, End] interval of historical years.
type Range struct {
	Begin Year
	End   Year
}

// Complete reports whether both bounds are known.
func (r Range) Complete() bool {
	return r.Begin.Valid && r.End.Valid
}

// Duration returns End - Begin in whole years. It is only meaningful for a complete range.
func (r Range) Duration() int {
	return r.End.Value - r.Begin.Value
}

// Period is a from/to pair kept as upstream text (e.g. part-of and subordinate-unit attributes).
type Period struct {
	From string
	To   string
}

// Complete reports whether both ends are present.
func (p Period) Complete() bool {
	return p.From != "" && p.To != ""
}

// String formats the period as "from - to".
func (p Period) String() string {
	return fmt.Sprintf("%s - %s", p.From, p.To)
}
