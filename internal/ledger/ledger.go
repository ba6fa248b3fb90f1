// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package ledger is a fungible token ledger. It owns the token parameters,
// the balances, and the total supply.
package ledger

import (
	"log/slog"

	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/internal/logging"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

// OwnerChecker decides whether a caller may perform owner-only operations.
type OwnerChecker interface {
	IsOwner(caller protocol.Address) bool
}

// Options configure a ledger.
type Options struct {
	// Owner gates owner-only operations. If nil, every caller is denied.
	Owner OwnerChecker

	Logger *slog.Logger
}

// Ledger is a view of the token's state within a key-value store. Writes go
// to the store passed to [New]; committing or discarding them is up to the
// caller.
type Ledger struct {
	store  keyvalue.Store
	owner  OwnerChecker
	logger *slog.Logger
}

// New returns a ledger that reads and writes the given store.
func New(store keyvalue.Store, opts Options) *Ledger {
	return &Ledger{
		store:  store,
		owner:  opts.Owner,
		logger: logging.Module(opts.Logger, "ledger"),
	}
}

var (
	keyParams      = database.NewKey("Token", "Params")
	keyTotalSupply = database.NewKey("Token", "TotalSupply")
)

func balanceKey(account protocol.Address) *database.Key {
	return database.NewKey("Balance", account)
}

// Construct initializes the token. It fails if the token has already been
// constructed.
func (l *Ledger) Construct(params *protocol.TokenParams) error {
	err := params.Validate()
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	_, err = l.store.Get(keyParams)
	switch {
	case err == nil:
		return errors.Conflict.With("token has already been constructed")
	case !errors.Is(err, errors.NotFound):
		return errors.UnknownError.WithFormat("load token parameters: %w", err)
	}

	b, err := marshalParams(params)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	err = l.store.Put(keyParams, b)
	if err != nil {
		return errors.UnknownError.WithFormat("store token parameters: %w", err)
	}

	err = l.putAmount(keyTotalSupply, new(uint256.Int))
	if err != nil {
		return errors.UnknownError.WithFormat("store total supply: %w", err)
	}

	l.logger.Info("Constructed token", "name", params.Name, "symbol", params.Symbol, "decimals", params.Decimals, "max-supply", params.MaxSupply.ToBig())
	return nil
}

// Params returns the token parameters.
func (l *Ledger) Params() (*protocol.TokenParams, error) {
	b, err := l.store.Get(keyParams)
	switch {
	case err == nil:
		return unmarshalParams(b)
	case errors.Is(err, errors.NotFound):
		return nil, errors.NotReady.With("token has not been constructed")
	default:
		return nil, errors.UnknownError.WithFormat("load token parameters: %w", err)
	}
}

// TotalSupply returns the number of base units in circulation.
func (l *Ledger) TotalSupply() (*uint256.Int, error) {
	_, err := l.Params()
	if err != nil {
		return nil, err
	}
	return l.getAmount(keyTotalSupply)
}

// BalanceOf returns the balance of the account.
func (l *Ledger) BalanceOf(account protocol.Address) (*uint256.Int, error) {
	return l.getAmount(balanceKey(account))
}

// Mint mints tokens on behalf of the caller. Only an owner may mint.
func (l *Ledger) Mint(caller, to protocol.Address, value *uint256.Int) (bool, error) {
	if l.owner == nil || !l.owner.IsOwner(caller) {
		return false, errors.Unauthorized.WithFormat("%v is not an owner", caller)
	}
	return l.MintUnrestricted(to, value)
}

// MintUnrestricted credits value to the account and increases the total
// supply. It does not check ownership or any per-account policy. It fails if
// the total supply would exceed the maximum supply.
func (l *Ledger) MintUnrestricted(to protocol.Address, value *uint256.Int) (bool, error) {
	params, err := l.Params()
	if err != nil {
		return false, err
	}

	supply, err := l.getAmount(keyTotalSupply)
	if err != nil {
		return false, err
	}

	newSupply := new(uint256.Int).Add(supply, value)
	if newSupply.Lt(supply) || newSupply.Gt(params.MaxSupply) {
		return false, errors.SupplyLimitExceeded.WithFormat("minting %v would exceed the maximum supply of %v",
			protocol.FormatAmount(value, params.Decimals), protocol.FormatAmount(params.MaxSupply, params.Decimals))
	}

	balance, err := l.BalanceOf(to)
	if err != nil {
		return false, err
	}

	// The balance cannot overflow because it is bounded by the supply
	balance.Add(balance, value)

	err = l.putAmount(balanceKey(to), balance)
	if err != nil {
		return false, errors.UnknownError.WithFormat("store balance: %w", err)
	}
	err = l.putAmount(keyTotalSupply, newSupply)
	if err != nil {
		return false, errors.UnknownError.WithFormat("store total supply: %w", err)
	}

	l.logger.Debug("Minted", "to", to, "value", value.ToBig(), "supply", newSupply.ToBig())
	return true, nil
}

func (l *Ledger) getAmount(key *database.Key) (*uint256.Int, error) {
	b, err := l.store.Get(key)
	switch {
	case err == nil:
		if len(b) != 32 {
			return nil, errors.EncodingError.WithFormat("%v: want 32 bytes, got %d", key, len(b))
		}
		return new(uint256.Int).SetBytes(b), nil
	case errors.Is(err, errors.NotFound):
		return new(uint256.Int), nil
	default:
		return nil, errors.UnknownError.WithFormat("load %v: %w", key, err)
	}
}

func (l *Ledger) putAmount(key *database.Key, v *uint256.Int) error {
	b := v.Bytes32()
	return l.store.Put(key, b[:])
}

func marshalParams(p *protocol.TokenParams) ([]byte, error) {
	w := new(protocol.Writer)
	w.WriteU256(p.MaxSupply)
	w.WriteU8(p.Decimals)
	w.WriteString(p.Name)
	w.WriteString(p.Symbol)
	return w.Bytes()
}

func unmarshalParams(b []byte) (*protocol.TokenParams, error) {
	r := protocol.NewReader(b)
	p := new(protocol.TokenParams)
	var err error
	if p.MaxSupply, err = r.ReadU256(); err != nil {
		return nil, err
	}
	if p.Decimals, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if p.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if p.Symbol, err = r.ReadString(); err != nil {
		return nil, err
	}
	return p, r.Done()
}
