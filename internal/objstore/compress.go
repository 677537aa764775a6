package objstore

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// IsCompressed reports whether key names a zstd object.
func IsCompressed(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".zst")
}

// Compress zstd-compresses data.
func Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("compress: create encoder: %w", err)
	}
	defer func() { _ = encoder.Close() }()
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: create decoder: %w", err)
	}
	defer decoder.Close()

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return out, nil
}

// MaybeDecompress decompresses data when name ends in ".zst" and returns it
// unchanged otherwise.
func MaybeDecompress(name string, data []byte) ([]byte, error) {
	if !IsCompressed(name) {
		return data, nil
	}
	return Decompress(data)
}
