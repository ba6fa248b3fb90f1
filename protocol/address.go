// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"encoding/hex"
	"strings"

	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// AddressLength is the length of an account address in bytes.
const AddressLength = 32

// Address identifies an account.
type Address [AddressLength]byte

// ParseAddress parses a hex address, with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(t) != hex.EncodedLen(AddressLength) {
		return a, errors.BadRequest.WithFormat("invalid address %q: want %d hex digits, got %d", s, hex.EncodedLen(AddressLength), len(t))
	}
	_, err := hex.Decode(a[:], []byte(t))
	if err != nil {
		return a, errors.BadRequest.WithFormat("invalid address %q: %w", s, err)
	}
	return a, nil
}

// MustParseAddress parses an address and panics if it is invalid.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// IsZero returns true if every byte of the address is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(b []byte) error {
	v, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
