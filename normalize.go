package vaultcrypt

import "strings"

// Normalizer transforms a title into a canonical form before it is blind indexed.
//
// IMPORTANT: Use the SAME normalizer on both write and search.
// Mixing normalizers breaks lookups. The stock client indexes raw titles
// (NormalizeNone), so a different normalizer only matches items written with it.
type Normalizer func(string) string

// NormalizeNone is an identity normalizer; titles match exactly, case-sensitive.
var NormalizeNone Normalizer = func(s string) string {
	return s
}

// NormalizeTrim trims leading and trailing whitespace only.
var NormalizeTrim Normalizer = func(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeLower lowercases only (no trim).
var NormalizeLower Normalizer = func(s string) string {
	return strings.ToLower(s)
}

// NormalizeTitle lowercases, trims and collapses inner whitespace runs to a
// single space.
//
// Example: "  GitHub   Work " -> "github work"
var NormalizeTitle Normalizer = func(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
