// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Selector identifies an operation in a call. It is the first four bytes of
// the SHA-256 hash of the operation name.
type Selector uint32

// SelectorOf returns the selector of the named operation.
func SelectorOf(name string) Selector {
	h := sha256.Sum256([]byte(name))
	return Selector(binary.BigEndian.Uint32(h[:4]))
}

func (s Selector) String() string {
	return fmt.Sprintf("0x%08x", uint32(s))
}

// Operation is an operation supported by the token contract.
type Operation uint8

const (
	OperationUnknown Operation = iota

	// OperationIsAddressOwner reports whether an address owns the contract.
	OperationIsAddressOwner

	// OperationMint mints tokens to an address, subject to the mint policy.
	OperationMint

	// OperationName returns the token name.
	OperationName

	// OperationSymbol returns the token symbol.
	OperationSymbol

	// OperationDecimals returns the token precision.
	OperationDecimals

	// OperationTotalSupply returns the number of base units in circulation.
	OperationTotalSupply

	// OperationMaximumSupply returns the maximum supply.
	OperationMaximumSupply

	// OperationBalanceOf returns the balance of an address.
	OperationBalanceOf
)

var operationNames = [...]string{
	OperationIsAddressOwner: "isAddressOwner",
	OperationMint:           "mint",
	OperationName:           "name",
	OperationSymbol:         "symbol",
	OperationDecimals:       "decimals",
	OperationTotalSupply:    "totalSupply",
	OperationMaximumSupply:  "maximumSupply",
	OperationBalanceOf:      "balanceOf",
}

var operationBySelector = func() map[Selector]Operation {
	m := make(map[Selector]Operation, len(operationNames))
	for op, name := range operationNames {
		if name == "" {
			continue
		}
		s := SelectorOf(name)
		if _, ok := m[s]; ok {
			panic(fmt.Errorf("selector collision for %s", name))
		}
		m[s] = Operation(op)
	}
	return m
}()

// Operations returns every known operation.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationNames)-1)
	for op := OperationIsAddressOwner; int(op) < len(operationNames); op++ {
		ops = append(ops, op)
	}
	return ops
}

// OperationBySelector resolves a selector. It returns false if the selector
// does not match any known operation.
func OperationBySelector(s Selector) (Operation, bool) {
	op, ok := operationBySelector[s]
	return op, ok
}

// OperationByName resolves an operation name.
func OperationByName(name string) (Operation, bool) {
	return OperationBySelector(SelectorOf(name))
}

// Selector returns the operation's selector.
func (op Operation) Selector() Selector {
	return SelectorOf(op.String())
}

func (op Operation) String() string {
	if int(op) < len(operationNames) && operationNames[op] != "" {
		return operationNames[op]
	}
	return fmt.Sprintf("Operation:%d", uint8(op))
}
