// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package kvtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
)

func BenchmarkCommit(b *testing.B, open Opener) {
	// Populate
	db := openDb(b, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()

	for i := 0; i < b.N; i++ {
		err := batch.Put(database.NewKey("answer", i), []byte(fmt.Sprintf("%x this much data ", i)))
		require.NoError(b, err, "Put")
	}

	// Commit
	b.ResetTimer()
	require.NoError(b, batch.Commit())
}
