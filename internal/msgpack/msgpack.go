// Package msgpack provides MessagePack encoding/decoding for the adapter's
// wire forms: scan request tickets and catalog snapshots.
package msgpack

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes a wire structure into MessagePack bytes.
func Encode(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return data, nil
}

// Decode deserializes MessagePack bytes into a wire structure.
// The v parameter must be a pointer to the target structure.
func Decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("empty MessagePack data")
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return nil
}
