package vaultcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// randomBytes returns n bytes from the system CSPRNG.
// Panics if the random source fails (unrecoverable).
func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return b
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cipher.NewGCM(block)
}

// sealGCM encrypts plaintext with AES-256-GCM and no associated data.
// Returns ciphertext || tag(16B); the nonce travels separately.
func sealGCM(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// openGCM decrypts and verifies ciphertext || tag.
// Every verification failure collapses to ErrAuthenticationFailed.
func openGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// checkSize rejects a fixed-length field of the wrong size.
func checkSize(field string, b []byte, size int) error {
	if len(b) != size {
		return fmt.Errorf("%w: %s must be %d bytes, got %d", ErrInvalidInput, field, size, len(b))
	}
	return nil
}

// checkCiphertext rejects ciphertexts too short to carry a GCM tag.
func checkCiphertext(field string, b []byte) error {
	if len(b) < TagSize {
		return fmt.Errorf("%w: %s must be at least %d bytes, got %d", ErrInvalidInput, field, TagSize, len(b))
	}
	return nil
}
