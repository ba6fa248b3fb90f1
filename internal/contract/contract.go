// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package contract is the capped-mint token contract. It routes calls to the
// ownership override, the mint guard, or the token ledger.
package contract

import (
	"log/slog"
	"sync"

	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/internal/ledger"
	"gitlab.com/accumulatenetwork/capmint/internal/logging"
	"gitlab.com/accumulatenetwork/capmint/internal/mint"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

type Options struct {
	Database keyvalue.Beginner
	Policy   *protocol.MintPolicy
	Logger   *slog.Logger
}

// Contract holds everything a call needs. It is created once per deployment.
// Calls are executed one at a time, and each call's writes are committed only
// if the call succeeds.
type Contract struct {
	mu       sync.Mutex
	db       keyvalue.Beginner
	policy   *protocol.MintPolicy
	override mint.OwnershipOverride
	logger   *slog.Logger
	base     *slog.Logger
}

// New returns a contract for the database. If a token has been deployed to
// the database, the contract uses the policy it was deployed with, and New
// fails with [errors.Conflict] if opts.Policy is set and does not match.
func New(opts Options) (*Contract, error) {
	if opts.Database == nil {
		return nil, errors.BadRequest.With("missing database")
	}

	batch := opts.Database.Begin(nil, false)
	saved, ok, err := mint.LoadPolicy(batch)
	batch.Discard()
	switch {
	case err != nil:
		return nil, errors.UnknownError.Wrap(err)
	case ok && opts.Policy != nil && !opts.Policy.Equal(saved):
		return nil, errors.Conflict.WithFormat("mint policy (%v per mint, %v mints) does not match the deployed policy (%v per mint, %v mints)",
			opts.Policy.LimitPerMint.ToBig(), opts.Policy.MintLimit.ToBig(), saved.LimitPerMint.ToBig(), saved.MintLimit.ToBig())
	case ok:
		opts.Policy = saved
	case opts.Policy == nil:
		opts.Policy = protocol.DefaultMintPolicy()
	}
	err = opts.Policy.Validate()
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	c := new(Contract)
	c.db = opts.Database
	c.policy = opts.Policy
	c.base = opts.Logger
	c.logger = logging.Module(opts.Logger, "contract")
	return c, nil
}

// Deploy constructs the token and saves the mint policy alongside it. It fails
// with [errors.Conflict] if the token has already been deployed to the
// database.
func (c *Contract) Deploy(params *protocol.TokenParams) error {
	err := c.execute(func(s *session) error {
		err := s.ledger.Construct(params)
		if err != nil {
			return err
		}
		return mint.SavePolicy(s.store, c.policy)
	})
	if err != nil {
		return err
	}
	c.logger.Info("Deployed", "name", params.Name, "limit-per-mint", c.policy.LimitPerMint.ToBig(), "mint-limit", c.policy.MintLimit.ToBig())
	return nil
}

// Policy returns the mint policy.
func (c *Contract) Policy() *protocol.MintPolicy { return c.policy }

// Call executes the operation identified by the selector. The ownership and
// mint operations are handled by the contract. Everything else is passed to
// the ledger.
func (c *Contract) Call(caller protocol.Address, selector protocol.Selector, calldata []byte) ([]byte, error) {
	var result []byte
	err := c.execute(func(s *session) error {
		var err error
		result, err = c.dispatch(s.ledger, s.guard, caller, selector, calldata)
		return err
	})
	return result, err
}

func (c *Contract) dispatch(l *ledger.Ledger, g *mint.Guard, caller protocol.Address, selector protocol.Selector, calldata []byte) ([]byte, error) {
	op, _ := protocol.OperationBySelector(selector)
	switch op {
	case protocol.OperationIsAddressOwner:
		w := new(protocol.Writer)
		w.WriteBool(c.override.IsAddressOwner(calldata))
		return w.Bytes()

	case protocol.OperationMint:
		r := protocol.NewReader(calldata)
		to, err := r.ReadAddress()
		if err != nil {
			return nil, errors.BadRequest.Wrap(err)
		}
		value, err := r.ReadU256()
		if err != nil {
			return nil, errors.BadRequest.Wrap(err)
		}
		if err := r.Done(); err != nil {
			return nil, errors.BadRequest.Wrap(err)
		}

		ok, err := g.RequestMint(to, value)
		if err != nil {
			return nil, err
		}
		w := new(protocol.Writer)
		w.WriteBool(ok)
		return w.Bytes()

	default:
		return l.Call(caller, selector, calldata)
	}
}

// IsAddressOwner always returns true.
func (c *Contract) IsAddressOwner(calldata []byte) bool {
	return c.override.IsAddressOwner(calldata)
}

// RequestMint mints value to the account, subject to the mint policy.
func (c *Contract) RequestMint(to protocol.Address, value *uint256.Int) (bool, error) {
	var ok bool
	err := c.execute(func(s *session) error {
		var err error
		ok, err = s.guard.RequestMint(to, value)
		return err
	})
	return ok, err
}

// MintCount returns the number of successful mints the account has made.
func (c *Contract) MintCount(account protocol.Address) (*uint256.Int, error) {
	var count *uint256.Int
	err := c.view(func(s *session) error {
		var err error
		count, err = s.guard.MintCount(account)
		return err
	})
	return count, err
}

// BalanceOf returns the account's balance.
func (c *Contract) BalanceOf(account protocol.Address) (*uint256.Int, error) {
	var balance *uint256.Int
	err := c.view(func(s *session) error {
		var err error
		balance, err = s.ledger.BalanceOf(account)
		return err
	})
	return balance, err
}

// TotalSupply returns the number of base units in circulation.
func (c *Contract) TotalSupply() (*uint256.Int, error) {
	var supply *uint256.Int
	err := c.view(func(s *session) error {
		var err error
		supply, err = s.ledger.TotalSupply()
		return err
	})
	return supply, err
}

// Params returns the token parameters.
func (c *Contract) Params() (*protocol.TokenParams, error) {
	var params *protocol.TokenParams
	err := c.view(func(s *session) error {
		var err error
		params, err = s.ledger.Params()
		return err
	})
	return params, err
}

// execute runs fn in a writable change set and commits it if fn succeeds.
func (c *Contract) execute(fn func(*session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.db.Begin(nil, true)
	defer batch.Discard()

	err := fn(c.bind(batch))
	if err != nil {
		c.logger.Debug("Call failed", "error", err, "code", errors.Code(err))
		return err
	}

	err = batch.Commit()
	if err != nil {
		return errors.UnknownError.WithFormat("commit: %w", err)
	}
	return nil
}

// view runs fn in a read-only change set.
func (c *Contract) view(fn func(*session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.db.Begin(nil, false)
	defer batch.Discard()
	return fn(c.bind(batch))
}

// session is the ledger and guard bound to a single change set.
type session struct {
	store  keyvalue.Store
	ledger *ledger.Ledger
	guard  *mint.Guard
}

func (c *Contract) bind(store keyvalue.Store) *session {
	l := ledger.New(store, ledger.Options{Owner: c.override, Logger: c.base})
	g := mint.NewGuard(c.policy, mint.NewCountStore(store), l, c.base)
	return &session{store, l, g}
}
