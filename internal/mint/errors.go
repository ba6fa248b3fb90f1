// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import (
	"fmt"

	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

// AmountLimitError is returned when a mint requests more than the per-mint
// limit.
type AmountLimitError struct {
	Value *uint256.Int
	Limit *uint256.Int
}

func (e *AmountLimitError) Error() string {
	return fmt.Sprintf("mint amount %v exceeds limit of %v", e.Value.ToBig(), e.Limit.ToBig())
}

func (e *AmountLimitError) Unwrap() error { return errors.MintLimitExceeded }

// CapReachedError is returned when an account has used all of its mints.
type CapReachedError struct {
	Account protocol.Address
	Count   *uint256.Int
}

func (e *CapReachedError) Error() string {
	return fmt.Sprintf("mint limit reached for %v", e.Account)
}

func (e *CapReachedError) Unwrap() error { return errors.MintCapReached }
