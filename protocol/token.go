// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// DefaultDecimals is the precision of the default token.
const DefaultDecimals = 18

// TokenParams are the immutable parameters of a token, set when the ledger is
// constructed.
type TokenParams struct {
	MaxSupply *uint256.Int
	Decimals  uint8
	Name      string
	Symbol    string
}

// DefaultTokenParams returns the parameters of the OP_PIZZA token: a
// 2,000,000 token maximum supply with 18 decimals.
func DefaultTokenParams() *TokenParams {
	return &TokenParams{
		MaxSupply: Tokens(2_000_000, DefaultDecimals),
		Decimals:  DefaultDecimals,
		Name:      "OP_PIZZA",
		Symbol:    "OP_PIZZA",
	}
}

// Validate checks the parameters.
func (p *TokenParams) Validate() error {
	switch {
	case p.MaxSupply == nil:
		return errors.BadRequest.With("missing maximum supply")
	case p.MaxSupply.IsZero():
		return errors.BadRequest.With("maximum supply must be greater than zero")
	case p.Decimals > MaxDecimals:
		return errors.BadRequest.WithFormat("precision %d exceeds %d", p.Decimals, MaxDecimals)
	case p.Name == "":
		return errors.BadRequest.With("missing name")
	case p.Symbol == "":
		return errors.BadRequest.With("missing symbol")
	}
	return nil
}

// Equal reports whether both describe the same token.
func (p *TokenParams) Equal(q *TokenParams) bool {
	if p == q {
		return true
	}
	if p == nil || q == nil {
		return false
	}
	return p.MaxSupply.Eq(q.MaxSupply) &&
		p.Decimals == q.Decimals &&
		p.Name == q.Name &&
		p.Symbol == q.Symbol
}

// MintPolicy limits how much may be minted in a single call and how many
// times each account may mint.
type MintPolicy struct {
	// LimitPerMint is the largest amount, in base units, that a single mint
	// may request.
	LimitPerMint *uint256.Int

	// MintLimit is the number of successful mints allowed per account.
	MintLimit *uint256.Int
}

// DefaultMintPolicy allows each account a single mint of at most 10 tokens
// (with 18 decimals).
func DefaultMintPolicy() *MintPolicy {
	return &MintPolicy{
		LimitPerMint: Tokens(10, DefaultDecimals),
		MintLimit:    uint256.NewInt(1),
	}
}

// Validate checks the policy.
func (p *MintPolicy) Validate() error {
	switch {
	case p.LimitPerMint == nil:
		return errors.BadRequest.With("missing limit per mint")
	case p.MintLimit == nil:
		return errors.BadRequest.With("missing mint limit")
	case p.MintLimit.IsZero():
		return errors.BadRequest.With("mint limit must be greater than zero")
	}
	return nil
}

// Equal reports whether both policies impose the same limits.
func (p *MintPolicy) Equal(q *MintPolicy) bool {
	if p == q {
		return true
	}
	if p == nil || q == nil {
		return false
	}
	return p.LimitPerMint.Eq(q.LimitPerMint) && p.MintLimit.Eq(q.MintLimit)
}
