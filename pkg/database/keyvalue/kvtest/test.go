// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package kvtest

import (
	"crypto/rand"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

type Opener = func() (keyvalue.Beginner, error)

type closableDb struct {
	keyvalue.Beginner
	t      testing.TB
	closed bool
}

func (c *closableDb) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if d, ok := c.Beginner.(io.Closer); ok {
		require.NoError(c.t, d.Close())
	}
}

func openDb(t testing.TB, open Opener) *closableDb {
	db, err := open()
	require.NoError(t, err)
	c := &closableDb{db, t, false}
	t.Cleanup(c.Close)
	return c
}

// TestSuite runs the tests that every backend must pass. Backends that
// provide snapshot reads should also run [TestIsolation].
func TestSuite(t *testing.T, open Opener) {
	t.Run("Database", func(t *testing.T) { TestDatabase(t, open) })
	t.Run("SubBatch", func(t *testing.T) { TestSubBatch(t, open) })
	t.Run("Prefix", func(t *testing.T) { TestPrefix(t, open) })
	t.Run("Delete", func(t *testing.T) { TestDelete(t, open) })
	t.Run("ForEachOverlay", func(t *testing.T) { TestForEachOverlay(t, open) })
}

func TestDatabase(t *testing.T, open Opener) {
	const N = 10000

	// Open and write changes
	db := openDb(t, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()

	// Read when nothing exists
	_, err := batch.Get(database.NewKey("answer", 0))
	require.Error(t, err)
	require.ErrorAs(t, err, new(*database.NotFoundError))

	// Write
	values := map[database.KeyHash]string{}
	for i := 0; i < N; i++ {
		key := database.NewKey("answer", i)
		value := fmt.Sprintf("%x this much data ", i)
		values[key.Hash()] = value
		err := batch.Put(key, []byte(value))
		require.NoError(t, err, "Put")
	}

	// Commit
	require.NoError(t, batch.Commit())

	// Verify with a new batch
	batch = db.Begin(nil, false)
	defer batch.Discard()

	for i := 0; i < N; i++ {
		val, err := batch.Get(database.NewKey("answer", i))
		require.NoError(t, err, "Get")
		require.Equal(t, fmt.Sprintf("%x this much data ", i), string(val))
	}

	batch.Discard()

	// Verify with a fresh instance
	db.Close()
	db = openDb(t, open)

	batch = db.Begin(nil, false)
	defer batch.Discard()

	for i := 0; i < N; i++ {
		val, err := batch.Get(database.NewKey("answer", i))
		require.NoError(t, err, "Get")
		require.Equal(t, fmt.Sprintf("%x this much data ", i), string(val))
	}

	// Verify ForEach
	require.NoError(t, batch.ForEach(func(key *database.Key, value []byte) error {
		if !key.HasPrefix(database.NewKey("answer")) {
			return nil
		}
		expect, ok := values[key.Hash()]
		require.Truef(t, ok, "%v should exist", key)
		require.Equalf(t, expect, string(value), "%v should match", key)
		delete(values, key.Hash())
		return nil
	}))
	require.Empty(t, values, "All values should be iterated over")
}

func TestIsolation(t *testing.T, open Opener) {
	// Open and write
	db := openDb(t, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()

	key := database.NewKey("isolated", "key")
	err := batch.Put(key, []byte("value"))
	require.NoError(t, err, "Put")
	require.NoError(t, batch.Commit())

	// Start two batches
	b1 := db.Begin(nil, true)
	defer b1.Discard()

	b2 := db.Begin(nil, false)
	defer b2.Discard()

	// Delete and commit in batch 1
	require.NoError(t, b1.Delete(key))
	require.NoError(t, b1.Commit())

	// Verify the change is not visible from batch 2
	v, err := b2.Get(key)
	require.NoError(t, err, "Get")
	require.Equal(t, []byte("value"), v)
	b2.Discard()

	// Verify the change is now visible
	batch = db.Begin(nil, true)
	defer batch.Discard()
	_, err = batch.Get(key)
	require.ErrorIs(t, err, errors.NotFound)
}

func TestSubBatch(t *testing.T, open Opener) {
	db := openDb(t, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()
	sub := batch.Begin(nil, true)
	defer sub.Discard()

	for i := 0; i < 1000; i++ {
		err := sub.Put(database.NewKey("sub", i), []byte(fmt.Sprintf("%x this much data ", i)))
		require.NoError(t, err, "Put")
	}

	// Commit and begin a new sub-batch
	require.NoError(t, sub.Commit())
	sub = batch.Begin(nil, true)
	defer sub.Discard()

	for i := 0; i < 1000; i++ {
		val, err := sub.Get(database.NewKey("sub", i))
		require.NoError(t, err, "Get")
		require.Equal(t, fmt.Sprintf("%x this much data ", i), string(val))
	}

	// The parent was never committed so nothing reaches the database
	sub.Discard()
	batch.Discard()
	batch = db.Begin(nil, false)
	defer batch.Discard()
	_, err := batch.Get(database.NewKey("sub", 0))
	require.ErrorIs(t, err, errors.NotFound)
}

func TestPrefix(t *testing.T, open Opener) {
	data := make([]byte, 10)
	_, err := io.ReadFull(rand.Reader, data)
	require.NoError(t, err)

	db := openDb(t, open)

	const prefix, key = "foo", "bar"
	batch := db.Begin(database.NewKey(prefix), true)
	defer batch.Discard()
	require.NoError(t, batch.Put(database.NewKey(key), data))
	require.NoError(t, batch.Commit())

	batch = db.Begin(database.NewKey(prefix), true)
	defer batch.Discard()
	v, err := batch.Get(database.NewKey(key))
	require.NoError(t, err)
	require.Equal(t, data, v)
	batch.Discard()

	// The full key is visible without the prefix
	batch = db.Begin(nil, false)
	defer batch.Discard()
	v, err = batch.Get(database.NewKey(prefix, key))
	require.NoError(t, err)
	require.Equal(t, data, v)
}

func TestDelete(t *testing.T, open Opener) {
	db := openDb(t, open)

	// Write a value
	batch := db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Put(database.NewKey("foo", "baz"), []byte("bar")))
	require.NoError(t, batch.Commit())

	// Verify it can be retrieved
	batch = db.Begin(nil, false)
	defer batch.Discard()
	v, err := batch.Get(database.NewKey("foo", "baz"))
	require.NoError(t, err)
	require.Equal(t, "bar", string(v))
	batch.Discard()

	// Delete the value
	batch = db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Delete(database.NewKey("foo", "baz")))

	// Verify it returns not found from the same batch
	_, err = batch.Get(database.NewKey("foo", "baz"))
	require.ErrorIs(t, err, errors.NotFound)

	// Commit and reopen
	require.NoError(t, batch.Commit())
	db.Close()
	db = openDb(t, open)

	// Verify it returns not found from a new batch
	batch = db.Begin(nil, false)
	defer batch.Discard()
	_, err = batch.Get(database.NewKey("foo", "baz"))
	require.ErrorIs(t, err, errors.NotFound)
}

func TestForEachOverlay(t *testing.T, open Opener) {
	db := openDb(t, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Put(database.NewKey("overlay", "a"), []byte("1")))
	require.NoError(t, batch.Put(database.NewKey("overlay", "b"), []byte("2")))
	require.NoError(t, batch.Commit())

	// Pending changes replace committed values
	batch = db.Begin(database.NewKey("overlay"), true)
	defer batch.Discard()
	require.NoError(t, batch.Put(database.NewKey("a"), []byte("3")))
	require.NoError(t, batch.Delete(database.NewKey("b")))
	require.NoError(t, batch.Put(database.NewKey("c"), []byte("4")))

	seen := map[string]string{}
	require.NoError(t, batch.ForEach(func(key *database.Key, value []byte) error {
		seen[key.String()] = string(value)
		return nil
	}))
	require.Equal(t, map[string]string{"a": "3", "c": "4"}, seen)
}
