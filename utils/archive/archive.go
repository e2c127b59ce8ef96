// Package archive wraps zstd compression for files the tool reads and
// writes: raw registration dumps can arrive compressed, and snapshot
// archives are stored compressed.
package archive

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstd frame magic, little-endian on the wire.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Shared stateless codecs. EncodeAll/DecodeAll are safe for concurrent use.
// Zero-length input still produces a frame, so Compress output is always
// recognizable by IsCompressed.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithZeroFrames(true))
	decoder, _ = zstd.NewReader(nil)
)

// Compress returns the zstd-compressed form of raw.
func Compress(raw []byte) []byte {
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
}

// Decompress restores a blob produced by Compress.
func Decompress(raw []byte) ([]byte, error) {
	res, err := decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return res, nil
}

// IsCompressed reports whether raw starts with a zstd frame, so callers can
// accept both plain and compressed inputs regardless of file extension.
func IsCompressed(raw []byte) bool {
	return len(raw) >= len(zstdMagic) && bytes.Equal(raw[:len(zstdMagic)], zstdMagic)
}
