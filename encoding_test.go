package vaultcrypt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello")},
		{"binary zeros", []byte{0x00, 0x00, 0x00}},
		{"binary all ones", []byte{0xff, 0xff, 0xff}},
		{"url unsafe chars", []byte{0xfb, 0xf0}}, // produces + or / in standard base64
		{"single byte", []byte{0x42}},
		{"iv sized", make([]byte, NonceSize)},
		{"salt sized", make([]byte, ItemSaltSize)},
		{"large data", make([]byte, 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := FromText(ToText(tt.data))
			require.NoError(t, err)
			require.True(t, bytes.Equal(tt.data, decoded))
		})
	}
}

func TestToText_StandardPadded(t *testing.T) {
	// Same form as the browser's btoa
	require.Equal(t, "aGk=", ToText([]byte("hi")))
	require.Equal(t, "+/A=", ToText([]byte{0xfb, 0xf0}))
}

func TestFromText_OptionalPadding(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"standard", "+/A="},
		{"standard unpadded", "+/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := FromText(tt.encoded)
			require.NoError(t, err)
			require.Equal(t, []byte{0xfb, 0xf0}, decoded)
		})
	}
}

func TestFromText_Invalid(t *testing.T) {
	for _, s := range []string{"!!!", "a", "ab$d", "-_A=", "-_A"} {
		_, err := FromText(s)
		require.ErrorIs(t, err, ErrInvalidInput, s)
	}
}

func TestFromTextSized(t *testing.T) {
	iv := make([]byte, NonceSize)

	got, err := fromTextSized("iv", ToText(iv), NonceSize)
	require.NoError(t, err)
	require.Equal(t, iv, got)

	_, err = fromTextSized("iv", ToText(iv[:8]), NonceSize)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "iv must be 12 bytes")
}
