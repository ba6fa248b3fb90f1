// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package capmint holds build information. Version is set at link time with
// -ldflags "-X gitlab.com/accumulatenetwork/capmint.Version=...".
package capmint

const unknownVersion = "version unknown"

var Version = unknownVersion

func IsVersionKnown() bool {
	return Version != unknownVersion
}
