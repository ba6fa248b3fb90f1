// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package run

import "reflect"

func setDefaultVal[V any](ptr *V, def V) {
	if reflect.ValueOf(ptr).Elem().IsZero() {
		*ptr = def
	}
}
