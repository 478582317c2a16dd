package vaultcrypt

import "errors"

var (
	// ErrInvalidInput indicates a malformed fixed-length field or an empty passphrase.
	// It is always returned before any cryptographic primitive runs and is
	// wrapped with detail, so match it with errors.Is.
	ErrInvalidInput = errors.New("vaultcrypt: invalid input")

	// ErrAuthenticationFailed indicates AES-GCM tag verification failed.
	// It does not distinguish a wrong key from tampered or corrupted data.
	ErrAuthenticationFailed = errors.New("vaultcrypt: authentication failed")

	// ErrContextDestroyed indicates a MasterContext was used after Destroy.
	ErrContextDestroyed = errors.New("vaultcrypt: master context destroyed")

	// ErrLocked indicates a session operation was attempted while the vault is locked.
	ErrLocked = errors.New("vaultcrypt: session is locked")

	// ErrRevealExpired indicates a RevealedSecret was read after its deadline.
	ErrRevealExpired = errors.New("vaultcrypt: revealed secret expired")

	// ErrInvalidFormat indicates a bundle or secret document is malformed.
	ErrInvalidFormat = errors.New("vaultcrypt: invalid format")

	// ErrDecompressionFailed indicates zstd decompression of a bundle failed.
	ErrDecompressionFailed = errors.New("vaultcrypt: decompression failed")

	// ErrUnsupportedVersion indicates a bundle was written by an unknown format version.
	ErrUnsupportedVersion = errors.New("vaultcrypt: unsupported version")
)
