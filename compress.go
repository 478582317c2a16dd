package vaultcrypt

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	defaultCompressionThreshold = 1024 // 1KB
	minCompressionSavings       = 0.10 // compressed payload must be at least 10% smaller

	// maxBundleSize caps the JSON a bundle may expand to (64MB).
	maxBundleSize = 64 * 1024 * 1024
)

// bundleCodec is the shared zstd encoder/decoder pair. Both are safe for
// concurrent EncodeAll/DecodeAll calls.
type bundleCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var loadBundleCodec = sync.OnceValues(func() (*bundleCodec, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderCRC(true),
	)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(maxBundleSize),
		zstd.WithDecoderConcurrency(0),
	)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &bundleCodec{enc: enc, dec: dec}, nil
})

// compressZstd encodes data as a single zstd frame. The frame header records
// the uncompressed size, which decompressZstd checks before decoding.
func compressZstd(data []byte) ([]byte, error) {
	codec, err := loadBundleCodec()
	if err != nil {
		return nil, err
	}
	return codec.enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// decompressZstd returns ErrDecompressionFailed for a corrupt frame, a frame
// that declares more than maxBundleSize, or output that does not match the
// declared size.
func decompressZstd(data []byte) ([]byte, error) {
	codec, err := loadBundleCodec()
	if err != nil {
		return nil, err
	}

	var hdr zstd.Header
	if err := hdr.Decode(data); err != nil || hdr.Skippable {
		return nil, ErrDecompressionFailed
	}

	var dst []byte
	if hdr.HasFCS {
		if hdr.FrameContentSize > maxBundleSize {
			return nil, ErrDecompressionFailed
		}
		dst = make([]byte, 0, hdr.FrameContentSize)
	}

	result, err := codec.dec.DecodeAll(data, dst)
	if err != nil || len(result) > maxBundleSize {
		return nil, ErrDecompressionFailed
	}
	if hdr.HasFCS && uint64(len(result)) != hdr.FrameContentSize {
		return nil, ErrDecompressionFailed
	}
	return result, nil
}

// packBundle picks the bundle payload encoding for the serialized JSON.
// Compression is skipped below the threshold or when it saves too little.
func packBundle(jsonBytes []byte, cfg *bundleConfig) (byte, []byte) {
	if cfg.compressionDisabled || len(jsonBytes) < cfg.compressionThreshold {
		return flagNoCompression, jsonBytes
	}

	compressed, err := compressZstd(jsonBytes)
	if err != nil {
		return flagNoCompression, jsonBytes
	}

	savings := float64(len(jsonBytes)-len(compressed)) / float64(len(jsonBytes))
	if savings < minCompressionSavings {
		return flagNoCompression, jsonBytes
	}
	return flagZstd, compressed
}

// unpackBundle returns the JSON held in a bundle payload.
func unpackBundle(flag byte, payload []byte) ([]byte, error) {
	switch flag {
	case flagNoCompression:
		if len(payload) > maxBundleSize {
			return nil, ErrInvalidFormat
		}
		return payload, nil
	case flagZstd:
		return decompressZstd(payload)
	default:
		return nil, ErrInvalidFormat
	}
}
