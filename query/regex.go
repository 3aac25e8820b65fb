package query

import (
	"regexp"
	"strings"

	"github.com/relux-works/flatdoc/flatdocerr"
)

// backslashPlaceholder is a sentinel unlikely to appear in a user pattern,
// used to round-trip literal double-backslashes through the single-
// backslash-stripping pass below.
const backslashPlaceholder = "\x00__flatdoc_backslash__\x00"

// normalizeRegexEscapes rewrites a user-supplied pattern so that "\\\\" in
// the input means a literal backslash and "\\x" means plain "x": replace
// every "\\\\" with a placeholder, drop remaining single backslashes, then
// restore the placeholder to a single backslash.
func normalizeRegexEscapes(pattern string) string {
	s := strings.ReplaceAll(pattern, `\\`, backslashPlaceholder)
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.ReplaceAll(s, backslashPlaceholder, `\`)
	return s
}

// compileFullMatch normalizes and compiles a $regex pattern as a full-string
// match (anchored at both ends).
func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	normalized := normalizeRegexEscapes(pattern)
	re, err := regexp.Compile("^(?:" + normalized + ")$")
	if err != nil {
		return nil, flatdocerr.Newf(flatdocerr.Invalid, "invalid $regex pattern: %v", err)
	}
	return re, nil
}
