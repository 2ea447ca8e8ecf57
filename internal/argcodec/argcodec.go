// Package argcodec protects spaces inside a single logical argument while a
// command line travels around as one string.
//
// Command lines for the wrapped CLI are composed as plain text and later split
// on whitespace into an argument vector. A path like "Foo Bar/classes" would be
// torn apart by that split, so callers Encode such values when composing the
// line and the runner Decodes every token just before it lands in the real
// argv.
package argcodec

import "strings"

// sentinel stands in for a literal space inside one argument. It is a private
// marker, not an escape syntax: if caller-supplied input already contains the
// sentinel, Decode will turn those occurrences into spaces as well. That input
// is outside the contract and the result is undefined rather than detected.
const sentinel = "%%__SP__%%"

// Encode replaces literal spaces in raw with the sentinel so the value
// survives whitespace tokenization as a single argument.
func Encode(raw string) string {
	return strings.ReplaceAll(raw, " ", sentinel)
}

// Decode reverses Encode. decode(encode(s)) == s for any s that does not
// already contain the sentinel.
func Decode(token string) string {
	return strings.ReplaceAll(token, sentinel, " ")
}
