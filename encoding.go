package vaultcrypt

import (
	"encoding/base64"
	"fmt"
)

// ToText encodes bytes as standard base64 with padding, the form the server
// stores for ciphertexts, ivs, salts and blind indexes.
func ToText(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromText decodes a base64 wire field in the standard alphabet. Padding is
// optional, as it is for the browser client's decoder. URL-safe text is
// rejected so each value has one alphabet on the wire.
func FromText(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if data, err2 := base64.RawStdEncoding.DecodeString(s); err2 == nil {
		return data, nil
	}
	return nil, fmt.Errorf("%w: not base64: %v", ErrInvalidInput, err)
}

// fromTextSized decodes a wire field and checks its length.
func fromTextSized(field, s string, size int) ([]byte, error) {
	data, err := FromText(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", ErrInvalidInput, field, size, len(data))
	}
	return data, nil
}
