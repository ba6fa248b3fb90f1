// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/internal/ledger"
	"gitlab.com/accumulatenetwork/capmint/internal/logging"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

var (
	A = protocol.Address{0xA}
	B = protocol.Address{0xB}
	C = protocol.Address{0xC}
	D = protocol.Address{0xD}
)

func tokens(n uint64) *uint256.Int { return protocol.Tokens(n, 18) }

type harness struct {
	t      *testing.T
	store  keyvalue.ChangeSet
	ledger *ledger.Ledger
	guard  *Guard
}

func setup(t *testing.T, policy *protocol.MintPolicy, params *protocol.TokenParams) *harness {
	t.Helper()
	store := memory.New(nil).Begin(nil, true)
	t.Cleanup(store.Discard)

	logger := logging.NewTestLogger(t)
	l := ledger.New(store, ledger.Options{Owner: OwnershipOverride{}, Logger: logger})
	require.NoError(t, l.Construct(params))

	return &harness{t, store, l, NewGuard(policy, NewCountStore(store), l, logger)}
}

func (h *harness) count(account protocol.Address) (*uint256.Int, bool) {
	h.t.Helper()
	v, ok, err := h.guard.counts.Get(account)
	require.NoError(h.t, err)
	return v, ok
}

func (h *harness) supply() *uint256.Int {
	h.t.Helper()
	v, err := h.ledger.TotalSupply()
	require.NoError(h.t, err)
	return v
}

func (h *harness) balance(account protocol.Address) *uint256.Int {
	h.t.Helper()
	v, err := h.ledger.BalanceOf(account)
	require.NoError(h.t, err)
	return v
}

func TestFirstMintThenCapReached(t *testing.T) {
	h := setup(t, protocol.DefaultMintPolicy(), protocol.DefaultTokenParams())

	ok, err := h.guard.RequestMint(A, tokens(5))
	require.NoError(t, err)
	require.True(t, ok)

	count, found := h.count(A)
	require.True(t, found)
	require.Equal(t, uint64(1), count.Uint64())
	require.True(t, h.supply().Eq(tokens(5)))
	require.True(t, h.balance(A).Eq(tokens(5)))

	// Second attempt is rejected and nothing changes
	_, err = h.guard.RequestMint(A, tokens(1))
	require.ErrorIs(t, err, errors.MintCapReached)
	require.Equal(t, errors.MintCapReached, errors.Code(err))

	var capErr *CapReachedError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, A, capErr.Account)

	count, _ = h.count(A)
	require.Equal(t, uint64(1), count.Uint64())
	require.True(t, h.supply().Eq(tokens(5)))
}

func TestLimitExceeded(t *testing.T) {
	h := setup(t, protocol.DefaultMintPolicy(), protocol.DefaultTokenParams())

	for i := 0; i < 2; i++ {
		_, err := h.guard.RequestMint(B, tokens(11))
		require.ErrorIs(t, err, errors.MintLimitExceeded)
		require.EqualError(t, err, "mint amount 11000000000000000000 exceeds limit of 10000000000000000000")

		var limitErr *AmountLimitError
		require.ErrorAs(t, err, &limitErr)
		require.True(t, limitErr.Limit.Eq(tokens(10)))

		_, found := h.count(B)
		require.False(t, found)
		require.True(t, h.supply().IsZero())
		require.True(t, h.balance(B).IsZero())
	}
}

func TestLimitBoundary(t *testing.T) {
	h := setup(t, protocol.DefaultMintPolicy(), protocol.DefaultTokenParams())

	// One base unit over the limit
	over := new(uint256.Int).AddUint64(tokens(10), 1)
	_, err := h.guard.RequestMint(A, over)
	require.ErrorIs(t, err, errors.MintLimitExceeded)

	// Exactly the limit
	ok, err := h.guard.RequestMint(A, tokens(10))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAccountsAreIsolated(t *testing.T) {
	h := setup(t, protocol.DefaultMintPolicy(), protocol.DefaultTokenParams())
	limit := protocol.DefaultMintPolicy().LimitPerMint

	for _, account := range []protocol.Address{C, D} {
		ok, err := h.guard.RequestMint(account, limit)
		require.NoError(t, err)
		require.True(t, ok)
	}

	for _, account := range []protocol.Address{C, D} {
		count, found := h.count(account)
		require.True(t, found)
		require.Equal(t, uint64(1), count.Uint64())
		require.True(t, h.balance(account).Eq(limit))
	}
	require.True(t, h.supply().Eq(new(uint256.Int).Mul(limit, uint256.NewInt(2))))
}

func TestHigherMintLimit(t *testing.T) {
	policy := &protocol.MintPolicy{LimitPerMint: tokens(10), MintLimit: uint256.NewInt(3)}
	h := setup(t, policy, protocol.DefaultTokenParams())

	for i := uint64(1); i <= 3; i++ {
		ok, err := h.guard.RequestMint(A, tokens(1))
		require.NoError(t, err)
		require.True(t, ok)

		count, _ := h.count(A)
		require.Equal(t, i, count.Uint64())
	}

	_, err := h.guard.RequestMint(A, tokens(1))
	require.ErrorIs(t, err, errors.MintCapReached)
	require.True(t, h.balance(A).Eq(tokens(3)))
}

func TestLedgerFailureDoesNotConsumeMint(t *testing.T) {
	params := protocol.DefaultTokenParams()
	params.MaxSupply = tokens(8)
	h := setup(t, protocol.DefaultMintPolicy(), params)

	// The ledger rejects the mint, and the error is returned as is
	_, err := h.guard.RequestMint(A, tokens(9))
	require.ErrorIs(t, err, errors.SupplyLimitExceeded)

	_, found := h.count(A)
	require.False(t, found)

	// The account can still mint
	ok, err := h.guard.RequestMint(A, tokens(8))
	require.NoError(t, err)
	require.True(t, ok)
}

type minterFunc func(protocol.Address, *uint256.Int) (bool, error)

func (f minterFunc) MintUnrestricted(to protocol.Address, value *uint256.Int) (bool, error) {
	return f(to, value)
}

func TestLedgerDeclines(t *testing.T) {
	store := memory.New(nil).Begin(nil, true)
	defer store.Discard()

	var calls int
	g := NewGuard(protocol.DefaultMintPolicy(), NewCountStore(store), minterFunc(func(protocol.Address, *uint256.Int) (bool, error) {
		calls++
		return false, nil
	}), logging.NewTestLogger(t))

	ok, err := g.RequestMint(A, tokens(1))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, calls)

	count, err := g.MintCount(A)
	require.NoError(t, err)
	require.True(t, count.IsZero())
}

func TestRejectedMintsSkipLedger(t *testing.T) {
	store := memory.New(nil).Begin(nil, true)
	defer store.Discard()

	counts := NewCountStore(store)
	require.NoError(t, counts.Put(A, uint256.NewInt(1)))

	g := NewGuard(protocol.DefaultMintPolicy(), counts, minterFunc(func(protocol.Address, *uint256.Int) (bool, error) {
		t.Fatal("ledger should not be called")
		return false, nil
	}), nil)

	_, err := g.RequestMint(B, tokens(11))
	require.ErrorIs(t, err, errors.MintLimitExceeded)

	_, err = g.RequestMint(A, tokens(1))
	require.ErrorIs(t, err, errors.MintCapReached)
}

func TestMissingAmount(t *testing.T) {
	h := setup(t, protocol.DefaultMintPolicy(), protocol.DefaultTokenParams())
	ok, err := h.guard.RequestMint(A, nil)
	require.ErrorIs(t, err, errors.BadRequest)
	require.False(t, ok)

	_, minted := h.count(A)
	require.False(t, minted)
	require.True(t, h.supply().IsZero())
}

func TestPolicyStore(t *testing.T) {
	store := memory.New(nil).Begin(nil, true)
	defer store.Discard()

	_, ok, err := LoadPolicy(store)
	require.NoError(t, err)
	require.False(t, ok)

	policy := &protocol.MintPolicy{LimitPerMint: tokens(5), MintLimit: uint256.NewInt(7)}
	require.NoError(t, SavePolicy(store, policy))

	saved, ok, err := LoadPolicy(store)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, policy.Equal(saved))

	err = SavePolicy(store, protocol.DefaultMintPolicy())
	require.ErrorIs(t, err, errors.Conflict)

	// Policies live apart from the mint counts
	require.NoError(t, NewCountStore(store).ForEach(func(protocol.Address, *uint256.Int) error {
		t.Fatal("no accounts have minted")
		return nil
	}))
}

func TestIncrementOverflow(t *testing.T) {
	v, err := increment(uint256.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, uint64(2), v.Uint64())

	_, err = increment(new(uint256.Int).SetAllOne())
	require.ErrorIs(t, err, errors.ArithmeticOverflow)
}

func TestMetrics(t *testing.T) {
	h := setup(t, protocol.DefaultMintPolicy(), protocol.DefaultTokenParams())

	minted := testutil.ToFloat64(mRequests.WithLabelValues(resultMinted))
	limited := testutil.ToFloat64(mRequests.WithLabelValues(resultLimit))
	capped := testutil.ToFloat64(mRequests.WithLabelValues(resultCap))

	_, _ = h.guard.RequestMint(A, tokens(1))
	_, _ = h.guard.RequestMint(A, tokens(1))
	_, _ = h.guard.RequestMint(B, tokens(100))

	require.Equal(t, minted+1, testutil.ToFloat64(mRequests.WithLabelValues(resultMinted)))
	require.Equal(t, capped+1, testutil.ToFloat64(mRequests.WithLabelValues(resultCap)))
	require.Equal(t, limited+1, testutil.ToFloat64(mRequests.WithLabelValues(resultLimit)))
}

func TestOwnershipOverride(t *testing.T) {
	var o OwnershipOverride
	for _, input := range [][]byte{nil, {}, {1, 2, 3}, make([]byte, 1024)} {
		require.True(t, o.IsAddressOwner(input))
	}
	require.True(t, o.IsOwner(protocol.Address{}))
	require.True(t, o.IsOwner(A))
}

func TestCountStoreForEach(t *testing.T) {
	store := memory.New(nil).Begin(nil, true)
	defer store.Discard()

	// Unrelated entries are skipped
	require.NoError(t, store.Put(unrelatedKey(), []byte("x")))

	counts := NewCountStore(store)
	require.NoError(t, counts.Put(A, uint256.NewInt(1)))
	require.NoError(t, counts.Put(B, uint256.NewInt(2)))

	seen := map[protocol.Address]uint64{}
	require.NoError(t, counts.ForEach(func(account protocol.Address, count *uint256.Int) error {
		seen[account] = count.Uint64()
		return nil
	}))
	require.Equal(t, map[protocol.Address]uint64{A: 1, B: 2}, seen)
}

func unrelatedKey() *database.Key { return database.NewKey("Balance", A) }
