package vaultcrypt

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemRecord is the item shape exchanged with the server. The cryptographic
// fields are base64 text; tags and version are opaque to this package and
// carried through unchanged.
type ItemRecord struct {
	ID            uuid.UUID `json:"id,omitzero"`
	EncryptedBlob string    `json:"encrypted_blob"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	TitleHMAC     string    `json:"title_hmac,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Version       int       `json:"version"`
}

// ShareRecord is the one-time link body. The server adds expiry and
// single_use metadata that this package neither reads nor enforces.
type ShareRecord struct {
	EncryptedPayload string `json:"encrypted_payload"`
	Salt             string `json:"salt"`
	IV               string `json:"iv"`
}

// Record encodes the sealed item for the wire. Version starts at 1.
func (s *SealedItem) Record() *ItemRecord {
	return &ItemRecord{
		EncryptedBlob: ToText(s.Ciphertext),
		IV:            ToText(s.IV),
		Salt:          ToText(s.Salt),
		Version:       1,
	}
}

// Sealed decodes and validates the cryptographic fields of the record.
func (r *ItemRecord) Sealed() (*SealedItem, error) {
	ciphertext, err := FromText(r.EncryptedBlob)
	if err != nil {
		return nil, fmt.Errorf("encrypted_blob: %w", err)
	}
	if err := checkCiphertext("encrypted_blob", ciphertext); err != nil {
		return nil, err
	}
	iv, err := fromTextSized("iv", r.IV, NonceSize)
	if err != nil {
		return nil, err
	}
	salt, err := fromTextSized("salt", r.Salt, ItemSaltSize)
	if err != nil {
		return nil, err
	}
	return &SealedItem{Ciphertext: ciphertext, IV: iv, Salt: salt}, nil
}

// TitleBlindIndex decodes the title_hmac field; nil when the record has none.
func (r *ItemRecord) TitleBlindIndex() ([]byte, error) {
	if r.TitleHMAC == "" {
		return nil, nil
	}
	return fromTextSized("title_hmac", r.TitleHMAC, BlindIndexSize)
}

// Open decrypts the record's blob.
func (r *ItemRecord) Open(ctx *MasterContext) ([]byte, error) {
	sealed, err := r.Sealed()
	if err != nil {
		return nil, err
	}
	return sealed.Open(ctx)
}

// Record encodes the share payload for the wire.
func (p *SharePayload) Record() *ShareRecord {
	return &ShareRecord{
		EncryptedPayload: ToText(p.Payload),
		Salt:             ToText(p.Salt),
		IV:               ToText(p.IV),
	}
}

// Payload decodes and validates the record.
func (r *ShareRecord) Payload() (*SharePayload, error) {
	payload, err := FromText(r.EncryptedPayload)
	if err != nil {
		return nil, fmt.Errorf("encrypted_payload: %w", err)
	}
	if err := checkCiphertext("encrypted_payload", payload); err != nil {
		return nil, err
	}
	salt, err := fromTextSized("salt", r.Salt, ShareSaltSize)
	if err != nil {
		return nil, err
	}
	iv, err := fromTextSized("iv", r.IV, NonceSize)
	if err != nil {
		return nil, err
	}
	return &SharePayload{Payload: payload, Salt: salt, IV: iv}, nil
}

// Open decrypts the record with the share passphrase.
func (r *ShareRecord) Open(sharePassphrase string) ([]byte, error) {
	p, err := r.Payload()
	if err != nil {
		return nil, err
	}
	return p.Open(sharePassphrase)
}

// MasterSaltText encodes a master salt for the registration master_salt field.
func MasterSaltText(salt []byte) (string, error) {
	if err := checkSize("master salt", salt, MasterSaltSize); err != nil {
		return "", err
	}
	return ToText(salt), nil
}

// ParseMasterSalt decodes the master_salt field returned on login.
func ParseMasterSalt(s string) ([]byte, error) {
	return fromTextSized("master_salt", s, MasterSaltSize)
}
