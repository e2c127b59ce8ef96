// Package chainaddr derives ballot-chain addresses from voting keys. The
// chain uses single-byte-header addresses: the header carries the address
// kind and the network discrimination bit, followed by the raw key bytes.
// Only account-kind addresses exist here, since genesis funds are credited
// straight to voting accounts.
package chainaddr

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rony4d/go-ballot/inter/votepk"
)

// Discrimination tells production and test networks apart. Addresses embed
// it, so funds from one discrimination cannot be replayed on the other.
type Discrimination uint8

const (
	// Production is the mainnet discrimination.
	Production Discrimination = iota
	// Test is the discrimination of test and fake networks.
	Test
)

const (
	// kindAccount is the header nibble of account-kind addresses.
	kindAccount byte = 0x05
	// testBit flags an address as discriminated for test networks.
	testBit byte = 0x80
)

// Size is the byte length of an account address: header + raw key.
const Size = 1 + votepk.Size

// Address is a binary account address.
type Address [Size]byte

// DiscriminationFromString parses "production" or "test".
func DiscriminationFromString(s string) (Discrimination, error) {
	switch s {
	case "production":
		return Production, nil
	case "test":
		return Test, nil
	default:
		return Production, fmt.Errorf("unknown discrimination: %q (valid: production, test)", s)
	}
}

// String implements fmt.Stringer.
func (d Discrimination) String() string {
	if d == Test {
		return "test"
	}
	return "production"
}

// MarshalText implements encoding.TextMarshaler, so a discrimination renders
// as "production" or "test" in JSON documents and config files.
func (d Discrimination) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Discrimination) UnmarshalText(input []byte) error {
	res, err := DiscriminationFromString(string(input))
	if err != nil {
		return err
	}
	*d = res
	return nil
}

// AccountAddress derives the account address of a voting key under the
// given discrimination.
func AccountAddress(pk votepk.PubKey, d Discrimination) Address {
	var a Address
	a[0] = kindAccount
	if d == Test {
		a[0] |= testBit
	}
	copy(a[1:], pk.Bytes())
	return a
}

// Discrimination extracts the network discrimination from the header byte.
func (a Address) Discrimination() Discrimination {
	if a[0]&testBit != 0 {
		return Test
	}
	return Production
}

// PublicKey returns the voting key the address was derived from.
func (a Address) PublicKey() votepk.PubKey {
	pk, _ := votepk.FromBytes(a[1:])
	return pk
}

// Bytes returns a fresh copy of the binary address.
func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the hexadecimal representation prefixed with "0x".
func (a Address) String() string {
	return hexutil.Encode(a.Bytes())
}

// FromString parses a hex address string and validates its header.
func FromString(str string) (Address, error) {
	b, err := hexutil.Decode(str)
	if err != nil {
		return Address{}, err
	}
	return FromBytes(b)
}

// FromBytes reconstructs an Address from its binary form.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Address{}, fmt.Errorf("wrong address size: %d, want %d", len(b), Size)
	}
	if b[0]&^testBit != kindAccount {
		return Address{}, fmt.Errorf("unsupported address kind: %#x", b[0]&^testBit)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*a = res
	return nil
}
