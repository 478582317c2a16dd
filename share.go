package vaultcrypt

import "fmt"

// SharePayload is a one-time share envelope. It has no relation to any
// MasterContext; only the share passphrase opens it. Expiry and single-use
// enforcement belong to the server.
type SharePayload struct {
	Payload []byte // AES-256-GCM ciphertext || tag
	Salt    []byte // 16-byte PBKDF2 salt
	IV      []byte // 12-byte nonce
}

// EncryptOneTimePayload encrypts plaintext under a key stretched from the
// share passphrase:
//
//	ephemeralKey = PBKDF2-HMAC-SHA256(sharePassphrase, salt, 200000, 32)
//	payload      = AES-256-GCM(ephemeralKey, iv, plaintext)
//
// The iteration count is lower than the master KDF: the secret is short-lived
// and the server bounds its exposure with expiry and single use. The passphrase
// must reach the recipient over a different channel than the link.
func EncryptOneTimePayload(plaintext []byte, sharePassphrase string) (*SharePayload, error) {
	if sharePassphrase == "" {
		return nil, fmt.Errorf("%w: share passphrase is empty", ErrInvalidInput)
	}

	salt := randomBytes(ShareSaltSize)
	iv := randomBytes(NonceSize)

	key := stretchPassphrase(sharePassphrase, salt, ShareIterations)
	defer wipe(key)

	payload, err := sealGCM(key, iv, plaintext)
	if err != nil {
		return nil, err
	}

	return &SharePayload{
		Payload: payload,
		Salt:    salt,
		IV:      iv,
	}, nil
}

// DecryptOneTimePayload re-derives the share key and decrypts. A wrong
// passphrase and a tampered payload both return ErrAuthenticationFailed.
func DecryptOneTimePayload(payload, salt, iv []byte, sharePassphrase string) ([]byte, error) {
	if sharePassphrase == "" {
		return nil, fmt.Errorf("%w: share passphrase is empty", ErrInvalidInput)
	}
	if err := checkCiphertext("payload", payload); err != nil {
		return nil, err
	}
	if err := checkSize("share salt", salt, ShareSaltSize); err != nil {
		return nil, err
	}
	if err := checkSize("iv", iv, NonceSize); err != nil {
		return nil, err
	}

	key := stretchPassphrase(sharePassphrase, salt, ShareIterations)
	defer wipe(key)

	return openGCM(key, iv, payload)
}

// Open decrypts the share payload.
func (p *SharePayload) Open(sharePassphrase string) ([]byte, error) {
	return DecryptOneTimePayload(p.Payload, p.Salt, p.IV, sharePassphrase)
}
