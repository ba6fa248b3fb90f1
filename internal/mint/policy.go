// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import (
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

var keyPolicy = database.NewKey("Token", "Policy")

// LoadPolicy returns the policy saved when the token was deployed. It returns
// false if no policy has been saved.
func LoadPolicy(store keyvalue.Store) (*protocol.MintPolicy, bool, error) {
	b, err := store.Get(keyPolicy)
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return nil, false, nil
	default:
		return nil, false, errors.UnknownError.WithFormat("load mint policy: %w", err)
	}

	r := protocol.NewReader(b)
	p := new(protocol.MintPolicy)
	p.LimitPerMint, err = r.ReadU256()
	if err == nil {
		p.MintLimit, err = r.ReadU256()
	}
	if err == nil {
		err = r.Done()
	}
	if err != nil {
		return nil, false, errors.EncodingError.WithFormat("decode mint policy: %w", err)
	}
	return p, true, nil
}

// SavePolicy records the policy. It fails with [errors.Conflict] if a policy
// has already been saved.
func SavePolicy(store keyvalue.Store, policy *protocol.MintPolicy) error {
	_, ok, err := LoadPolicy(store)
	switch {
	case err != nil:
		return err
	case ok:
		return errors.Conflict.With("mint policy has already been saved")
	}

	w := new(protocol.Writer)
	w.WriteU256(policy.LimitPerMint)
	w.WriteU256(policy.MintLimit)
	b, err := w.Bytes()
	if err != nil {
		return errors.EncodingError.Wrap(err)
	}
	err = store.Put(keyPolicy, b)
	if err != nil {
		return errors.UnknownError.WithFormat("store mint policy: %w", err)
	}
	return nil
}
