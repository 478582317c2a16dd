package vaultcrypt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bundle format:
// [version:1][flag:1][payload]
//
// Flag byte values:
//   0x00 = payload is raw JSON
//   0x01 = payload is zstd-compressed JSON
//
// The JSON holds only what the server already stores: the master salt and
// the at-rest item records. No key and no plaintext is ever written.

const (
	bundleVersion byte = 0x01

	flagNoCompression byte = 0x00
	flagZstd          byte = 0x01

	bundleHeaderSize = 2
)

// Bundle is a portable snapshot of a vault's encrypted records, for offline
// backup or moving a vault between servers. Opening its items still requires
// the master passphrase.
type Bundle struct {
	ID         uuid.UUID    `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	MasterSalt string       `json:"master_salt"`
	Items      []ItemRecord `json:"items"`
}

// BundleOption is a functional option for ExportBundle.
type BundleOption func(*bundleConfig)

type bundleConfig struct {
	compressionThreshold int
	compressionDisabled  bool
}

// WithCompressionThreshold sets the minimum JSON size in bytes before
// compression is attempted. Default is 1024 (1KB).
func WithCompressionThreshold(bytes int) BundleOption {
	return func(c *bundleConfig) {
		if bytes > 0 {
			c.compressionThreshold = bytes
		}
	}
}

// WithCompressionDisabled writes the JSON uncompressed.
func WithCompressionDisabled() BundleOption {
	return func(c *bundleConfig) {
		c.compressionDisabled = true
	}
}

// NewBundle snapshots the given records under a fresh bundle ID.
func NewBundle(masterSalt []byte, items []ItemRecord) (*Bundle, error) {
	saltText, err := MasterSaltText(masterSalt)
	if err != nil {
		return nil, err
	}
	b := &Bundle{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		MasterSalt: saltText,
		Items:      append([]ItemRecord(nil), items...),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the master salt and the fixed-length fields of every item.
func (b *Bundle) Validate() error {
	if _, err := ParseMasterSalt(b.MasterSalt); err != nil {
		return err
	}
	for i := range b.Items {
		if _, err := b.Items[i].Sealed(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if _, err := b.Items[i].TitleBlindIndex(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ExportBundle serializes the bundle.
func ExportBundle(b *Bundle, opts ...BundleOption) ([]byte, error) {
	cfg := &bundleConfig{compressionThreshold: defaultCompressionThreshold}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	jsonBytes, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	flag, payload := packBundle(jsonBytes, cfg)

	out := make([]byte, 0, bundleHeaderSize+len(payload))
	out = append(out, bundleVersion, flag)
	out = append(out, payload...)
	return out, nil
}

// ImportBundle parses and validates a serialized bundle.
func ImportBundle(data []byte) (*Bundle, error) {
	if len(data) < bundleHeaderSize+1 {
		return nil, ErrInvalidFormat
	}
	if data[0] != bundleVersion {
		return nil, fmt.Errorf("%w: bundle version %d", ErrUnsupportedVersion, data[0])
	}

	jsonBytes, err := unpackBundle(data[1], data[bundleHeaderSize:])
	if err != nil {
		return nil, err
	}

	var b Bundle
	if err := json.Unmarshal(jsonBytes, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
