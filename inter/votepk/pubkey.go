// Package votepk provides the voting public key type. Voting keys identify
// the ballot-side accounts that registrations delegate their power to. A key
// is the raw 32 bytes of an ed25519 public point, kept free of any network
// discrimination so that keys decoded from registration dumps compare and
// sort bytewise.
package votepk

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Size is the byte length of a voting public key.
const Size = 32

// PubKey is a raw voting public key. It is an array so it can serve as a
// map key and compare with ==.
type PubKey [Size]byte

// Empty reports whether the key is all zeroes. A zeroed key can still be a
// legitimate delegation target; Empty is meant for "field was never set"
// checks on optional config values.
func (pk PubKey) Empty() bool {
	return pk == PubKey{}
}

// String returns the hexadecimal representation prefixed with "0x".
func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Bytes returns a fresh copy of the raw key bytes.
func (pk PubKey) Bytes() []byte {
	return pk[:]
}

// FromString parses a hex string (with or without "0x" prefix) into a
// PubKey.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// FromBytes reconstructs a PubKey from raw bytes.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) != Size {
		return PubKey{}, fmt.Errorf("wrong voting key size: %d, want %d", len(b), Size)
	}
	var pk PubKey
	copy(pk[:], b)
	return pk, nil
}

// MarshalText implements encoding.TextMarshaler, so keys render as hex in
// JSON documents.
func (pk PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
