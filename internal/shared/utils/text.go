package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldName returns the key author names are compared by: whitespace
// collapsed, then lower-cased. It is the rule of the lower(name) unique
// index, so "Straße" and "STRASSE" stay distinct authors. A Caser is
// stateful, so one is made per call.
func FoldName(name string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(name), " "))
}

// StripSeparators removes spaces and hyphens, as typed in ISBNs.
func StripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}
