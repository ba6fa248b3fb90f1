// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import (
	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

// CountStore records how many times each account has minted. It lives in its
// own region of the store, apart from the ledger's balances.
type CountStore struct {
	store keyvalue.Store
}

func NewCountStore(store keyvalue.Store) *CountStore {
	return &CountStore{store}
}

func countKey(account protocol.Address) *database.Key {
	return database.NewKey("MintCount", account)
}

// Get returns the account's mint count. It returns false if the account has
// never minted.
func (s *CountStore) Get(account protocol.Address) (*uint256.Int, bool, error) {
	b, err := s.store.Get(countKey(account))
	switch {
	case err == nil:
		if len(b) != 32 {
			return nil, false, errors.EncodingError.WithFormat("mint count of %v: want 32 bytes, got %d", account, len(b))
		}
		return new(uint256.Int).SetBytes(b), true, nil
	case errors.Is(err, errors.NotFound):
		return new(uint256.Int), false, nil
	default:
		return nil, false, errors.UnknownError.WithFormat("load mint count of %v: %w", account, err)
	}
}

// Put sets the account's mint count.
func (s *CountStore) Put(account protocol.Address, count *uint256.Int) error {
	b := count.Bytes32()
	err := s.store.Put(countKey(account), b[:])
	if err != nil {
		return errors.UnknownError.WithFormat("store mint count of %v: %w", account, err)
	}
	return nil
}

// ForEach calls fn for each account that has minted.
func (s *CountStore) ForEach(fn func(protocol.Address, *uint256.Int) error) error {
	prefix := database.NewKey("MintCount")
	return s.store.ForEach(func(key *database.Key, value []byte) error {
		if key.Len() != 2 || !key.HasPrefix(prefix) {
			return nil
		}
		b, ok := key.Get(1).([]byte)
		if !ok || len(b) != protocol.AddressLength || len(value) != 32 {
			return errors.EncodingError.WithFormat("invalid mint count entry %v", key)
		}
		var account protocol.Address
		copy(account[:], b)
		return fn(account, new(uint256.Int).SetBytes(value))
	})
}
