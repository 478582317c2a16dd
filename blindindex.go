package vaultcrypt

import (
	"crypto/hmac"
	"crypto/sha256"
)

// ComputeTitleBlindIndex computes HMAC-SHA256(searchKey, title).
//
// The tag is deterministic: equal titles under the same context always give
// equal tags, which lets the server answer exact-match lookups on an opaque
// token. The server can therefore see which stored items share a title. That
// leakage is inherent to an equality index; there is no fuzzy or substring
// matching.
func ComputeTitleBlindIndex(title string, ctx *MasterContext) ([]byte, error) {
	if err := ctx.acquire(); err != nil {
		return nil, err
	}
	defer ctx.mu.RUnlock()
	return computeHMAC(&ctx.searchKey, []byte(title)), nil
}

// ComputeTitleBlindIndexText returns the blind index encoded for storage
// (the title_hmac field).
func ComputeTitleBlindIndexText(title string, ctx *MasterContext) (string, error) {
	idx, err := ComputeTitleBlindIndex(title, ctx)
	if err != nil {
		return "", err
	}
	return ToText(idx), nil
}

// ComputeTitleBlindIndexNormalized normalizes the title before tagging.
// The same normalizer must be used when storing and when searching.
func ComputeTitleBlindIndexNormalized(title string, ctx *MasterContext, norm Normalizer) ([]byte, error) {
	return ComputeTitleBlindIndex(norm(title), ctx)
}

// computeHMAC computes HMAC-SHA256 with the given key.
func computeHMAC(key *[KeySize]byte, data []byte) []byte {
	h := hmac.New(sha256.New, key[:])
	h.Write(data)
	return h.Sum(nil)
}

// hmacEqual compares two tags in constant time.
func hmacEqual(a, b []byte) bool {
	return hmac.Equal(a, b)
}

// MatchTitle reports whether tag is the blind index of title under ctx.
// The comparison is constant-time.
func MatchTitle(tag []byte, title string, ctx *MasterContext) (bool, error) {
	idx, err := ComputeTitleBlindIndex(title, ctx)
	if err != nil {
		return false, err
	}
	return hmacEqual(idx, tag), nil
}
