package vaultcrypt

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// NewMasterSalt returns a fresh random 16-byte master salt for registration.
// The salt is not secret; the server stores it and returns it on login.
func NewMasterSalt() []byte {
	return randomBytes(MasterSaltSize)
}

// DeriveMasterContext stretches a passphrase with the account's master salt and
// fans the result out into the session keys:
//
//	masterKey         = PBKDF2-HMAC-SHA256(passphrase, masterSalt, 600000, 32)
//	encryptionRootKey = HKDF-SHA256(masterKey, masterSalt, "aami-enc-root", 32)
//	searchKey         = HKDF-SHA256(masterKey, masterSalt, "aami-search", 32)
//
// Derivation is deterministic: the same passphrase and salt reproduce the same
// keys on any device. It is deliberately slow (hundreds of milliseconds or more),
// cannot be cancelled and should not run on a latency-sensitive path.
func DeriveMasterContext(passphrase string, masterSalt []byte) (*MasterContext, error) {
	return deriveMasterContext(passphrase, masterSalt, MasterIterations)
}

func deriveMasterContext(passphrase string, masterSalt []byte, iterations int) (*MasterContext, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: passphrase is empty", ErrInvalidInput)
	}
	if err := checkSize("master salt", masterSalt, MasterSaltSize); err != nil {
		return nil, err
	}

	ctx := &MasterContext{}
	copy(ctx.masterSalt[:], masterSalt)

	masterKey := stretchPassphrase(passphrase, masterSalt, iterations)
	copy(ctx.masterKey[:], masterKey)
	wipe(masterKey)

	if err := hkdfDerive(ctx.masterKey[:], masterSalt, infoEncryptionRoot, ctx.encryptionRoot[:]); err != nil {
		ctx.Destroy()
		return nil, err
	}
	if err := hkdfDerive(ctx.masterKey[:], masterSalt, infoSearch, ctx.searchKey[:]); err != nil {
		ctx.Destroy()
		return nil, err
	}

	return ctx, nil
}

// stretchPassphrase runs PBKDF2-HMAC-SHA256 with a 32-byte output.
func stretchPassphrase(passphrase string, salt []byte, iterations int) []byte {
	pw := []byte(passphrase)
	defer wipe(pw)
	return pbkdf2.Key(pw, salt, iterations, KeySize, sha256.New)
}

// hkdfDerive fills out with HKDF-SHA256 output for the given key material,
// salt and info label.
func hkdfDerive(ikm, salt []byte, info string, out []byte) error {
	reader := hkdf.New(sha256.New, ikm, salt, []byte(info))
	if _, err := io.ReadFull(reader, out); err != nil {
		return fmt.Errorf("vaultcrypt: hkdf: %w", err)
	}
	return nil
}
