// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import "gitlab.com/accumulatenetwork/capmint/protocol"

// OwnershipOverride reports every address as an owner. It disables the
// ledger's ownership gate so that anyone may mint, leaving the [Guard] as the
// only limit.
type OwnershipOverride struct{}

// IsAddressOwner ignores the call data and returns true.
func (OwnershipOverride) IsAddressOwner([]byte) bool { return true }

// IsOwner returns true.
func (OwnershipOverride) IsOwner(protocol.Address) bool { return true }
