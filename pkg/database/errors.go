// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"fmt"

	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// NotFoundError is returned when a key does not exist.
type NotFoundError Key

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v not found", (*Key)(e))
}

func (e *NotFoundError) Unwrap() error {
	return errors.NotFound
}
