// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/internal/logging"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

type ownerFunc func(protocol.Address) bool

func (f ownerFunc) IsOwner(caller protocol.Address) bool { return f(caller) }

var (
	alice = protocol.Address{1}
	bob   = protocol.Address{2}
)

func newLedger(t *testing.T, params *protocol.TokenParams, owner OwnerChecker) *Ledger {
	t.Helper()
	batch := memory.New(nil).Begin(nil, true)
	t.Cleanup(batch.Discard)
	l := New(batch, Options{Owner: owner, Logger: logging.NewTestLogger(t)})
	require.NoError(t, l.Construct(params))
	return l
}

func TestConstruct(t *testing.T) {
	l := newLedger(t, protocol.DefaultTokenParams(), nil)

	params, err := l.Params()
	require.NoError(t, err)
	require.Equal(t, "OP_PIZZA", params.Name)
	require.Equal(t, uint8(18), params.Decimals)
	require.True(t, params.MaxSupply.Eq(protocol.Tokens(2_000_000, 18)))

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	require.True(t, supply.IsZero())

	// Construct is one-time
	err = l.Construct(protocol.DefaultTokenParams())
	require.ErrorIs(t, err, errors.Conflict)
}

func TestNotConstructed(t *testing.T) {
	batch := memory.New(nil).Begin(nil, true)
	defer batch.Discard()
	l := New(batch, Options{})

	_, err := l.TotalSupply()
	require.ErrorIs(t, err, errors.NotReady)

	_, err = l.MintUnrestricted(alice, uint256.NewInt(1))
	require.ErrorIs(t, err, errors.NotReady)
}

func TestMintUnrestricted(t *testing.T) {
	params := &protocol.TokenParams{MaxSupply: uint256.NewInt(100), Decimals: 0, Name: "Test", Symbol: "TST"}
	l := newLedger(t, params, nil)

	ok, err := l.MintUnrestricted(alice, uint256.NewInt(60))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.MintUnrestricted(bob, uint256.NewInt(40))
	require.NoError(t, err)
	require.True(t, ok)

	// The supply is exhausted
	_, err = l.MintUnrestricted(bob, uint256.NewInt(1))
	require.ErrorIs(t, err, errors.SupplyLimitExceeded)

	balance, err := l.BalanceOf(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(60), balance.Uint64())

	balance, err = l.BalanceOf(bob)
	require.NoError(t, err)
	require.Equal(t, uint64(40), balance.Uint64())

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	require.Equal(t, uint64(100), supply.Uint64())
}

func TestMintSupplyOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	params := &protocol.TokenParams{MaxSupply: max, Decimals: 0, Name: "Test", Symbol: "TST"}
	l := newLedger(t, params, nil)

	_, err := l.MintUnrestricted(alice, max)
	require.NoError(t, err)

	// Wrapping around is reported as exceeding the supply
	_, err = l.MintUnrestricted(bob, uint256.NewInt(1))
	require.ErrorIs(t, err, errors.SupplyLimitExceeded)
}

func TestMintRequiresOwner(t *testing.T) {
	l := newLedger(t, protocol.DefaultTokenParams(), ownerFunc(func(a protocol.Address) bool { return a == alice }))

	_, err := l.Mint(bob, bob, uint256.NewInt(1))
	require.ErrorIs(t, err, errors.Unauthorized)

	ok, err := l.Mint(alice, bob, uint256.NewInt(1))
	require.NoError(t, err)
	require.True(t, ok)

	// Without an owner checker nobody is an owner
	l.owner = nil
	_, err = l.Mint(alice, bob, uint256.NewInt(1))
	require.ErrorIs(t, err, errors.Unauthorized)
}

func TestCall(t *testing.T) {
	l := newLedger(t, protocol.DefaultTokenParams(), nil)
	_, err := l.MintUnrestricted(alice, uint256.NewInt(5))
	require.NoError(t, err)

	call := func(op protocol.Operation, args ...func(*protocol.Writer)) *protocol.Reader {
		t.Helper()
		w := new(protocol.Writer)
		for _, arg := range args {
			arg(w)
		}
		b, err := w.Bytes()
		require.NoError(t, err)
		out, err := l.Call(bob, op.Selector(), b)
		require.NoError(t, err)
		return protocol.NewReader(out)
	}

	s, err := call(protocol.OperationName).ReadString()
	require.NoError(t, err)
	require.Equal(t, "OP_PIZZA", s)

	s, err = call(protocol.OperationSymbol).ReadString()
	require.NoError(t, err)
	require.Equal(t, "OP_PIZZA", s)

	d, err := call(protocol.OperationDecimals).ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(18), d)

	v, err := call(protocol.OperationTotalSupply).ReadU256()
	require.NoError(t, err)
	require.Equal(t, uint64(5), v.Uint64())

	v, err = call(protocol.OperationMaximumSupply).ReadU256()
	require.NoError(t, err)
	require.True(t, v.Eq(protocol.Tokens(2_000_000, 18)))

	v, err = call(protocol.OperationBalanceOf, func(w *protocol.Writer) { w.WriteAddress(alice) }).ReadU256()
	require.NoError(t, err)
	require.Equal(t, uint64(5), v.Uint64())

	// Unknown selector
	_, err = l.Call(bob, protocol.SelectorOf("transfer"), nil)
	require.ErrorIs(t, err, errors.NotFound)

	// Missing argument
	_, err = l.Call(bob, protocol.OperationBalanceOf.Selector(), nil)
	require.ErrorIs(t, err, errors.BadRequest)

	// Trailing data
	_, err = l.Call(bob, protocol.OperationName.Selector(), []byte{1})
	require.ErrorIs(t, err, errors.BadRequest)

	// The ledger's mint is owner-gated
	w := new(protocol.Writer)
	w.WriteAddress(bob)
	w.WriteU256(uint256.NewInt(1))
	b, err := w.Bytes()
	require.NoError(t, err)
	_, err = l.Call(bob, protocol.OperationMint.Selector(), b)
	require.ErrorIs(t, err, errors.Unauthorized)
}
