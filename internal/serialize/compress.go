// Package serialize compresses catalog snapshot payloads with ZStandard so
// engine sessions can cache a foreign file's schema cheaply.
package serialize

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	encOnce sync.Once
	encoder *zstd.Encoder
	encErr  error

	decOnce sync.Once
	decoder *zstd.Decoder
	decErr  error
)

// Compress compresses a snapshot payload. The shared encoder is created on
// first use; EncodeAll is safe for concurrent callers.
func Compress(data []byte) ([]byte, error) {
	encOnce.Do(func() {
		encoder, encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	if encErr != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", encErr)
	}
	if len(data) == 0 {
		return []byte{}, nil
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress reverses Compress.
func Decompress(compressed []byte) ([]byte, error) {
	decOnce.Do(func() {
		decoder, decErr = zstd.NewReader(nil)
	})
	if decErr != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", decErr)
	}
	if len(compressed) == 0 {
		return []byte{}, nil
	}
	out, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
