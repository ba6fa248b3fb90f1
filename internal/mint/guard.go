// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import (
	"log/slog"

	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/internal/logging"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

// Minter is the ledger's unrestricted mint primitive.
type Minter interface {
	MintUnrestricted(to protocol.Address, value *uint256.Int) (bool, error)
}

// Guard enforces the mint policy before delegating to the ledger.
type Guard struct {
	policy *protocol.MintPolicy
	counts *CountStore
	ledger Minter
	logger *slog.Logger
}

func NewGuard(policy *protocol.MintPolicy, counts *CountStore, ledger Minter, logger *slog.Logger) *Guard {
	return &Guard{
		policy: policy,
		counts: counts,
		ledger: ledger,
		logger: logging.Module(logger, "mint"),
	}
}

// RequestMint mints value to the account if the amount is within the per-mint
// limit and the account has mints remaining. The ledger's result is returned
// unchanged, as are its errors.
//
// The account's count is only updated once the ledger reports success, so a
// failed or declined mint never uses up one of the account's mints.
func (g *Guard) RequestMint(to protocol.Address, value *uint256.Int) (bool, error) {
	if value == nil {
		mRequests.WithLabelValues(resultError).Inc()
		return false, errors.BadRequest.With("missing mint amount")
	}
	if value.Gt(g.policy.LimitPerMint) {
		mRequests.WithLabelValues(resultLimit).Inc()
		return false, &AmountLimitError{Value: value.Clone(), Limit: g.policy.LimitPerMint.Clone()}
	}

	count, _, err := g.counts.Get(to)
	if err != nil {
		mRequests.WithLabelValues(resultError).Inc()
		return false, errors.UnknownError.Wrap(err)
	}
	if !count.Lt(g.policy.MintLimit) {
		mRequests.WithLabelValues(resultCap).Inc()
		return false, &CapReachedError{Account: to, Count: count}
	}

	// count < MintLimit, so this cannot overflow
	next, err := increment(count)
	if err != nil {
		mRequests.WithLabelValues(resultError).Inc()
		return false, err
	}

	ok, err := g.ledger.MintUnrestricted(to, value)
	if err != nil {
		mRequests.WithLabelValues(resultError).Inc()
		return false, err
	}
	if !ok {
		mRequests.WithLabelValues(resultDeclined).Inc()
		return false, nil
	}

	err = g.counts.Put(to, next)
	if err != nil {
		mRequests.WithLabelValues(resultError).Inc()
		return false, errors.UnknownError.Wrap(err)
	}

	mRequests.WithLabelValues(resultMinted).Inc()
	g.logger.Info("Mint accepted", "to", to, "value", value.ToBig(), "count", next.Uint64())
	return true, nil
}

// MintCount returns the number of successful mints the account has made.
func (g *Guard) MintCount(account protocol.Address) (*uint256.Int, error) {
	count, _, err := g.counts.Get(account)
	return count, err
}

func increment(v *uint256.Int) (*uint256.Int, error) {
	u := new(uint256.Int).AddUint64(v, 1)
	if u.Lt(v) {
		return nil, errors.ArithmeticOverflow.WithFormat("mint count %v overflowed", v.ToBig())
	}
	return u, nil
}
