// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package leveldb

import (
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// Database is a key-value database backed by LevelDB. Keys are stored in their
// binary encoding so they can be recovered when iterating.
type Database struct {
	leveldb *leveldb.DB
}

func OpenFile(filepath string) (*Database, error) {
	// Make sure all directories exist
	err := os.MkdirAll(filepath, 0700)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("create %q: %w", filepath, err)
	}

	db, err := leveldb.OpenFile(filepath, nil)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open %q: %w", filepath, err)
	}

	d := new(Database)
	d.leveldb = db
	return d, nil
}

// Begin begins a change set. Reads are served from a snapshot taken when the
// change set is created.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	snap, err := d.leveldb.GetSnapshot()

	discard := func() {
		if snap != nil {
			snap.Release()
		}
	}

	// Read from the snapshot
	get := func(key *database.Key) ([]byte, error) {
		return d.get(snap, err, key)
	}

	// Commit to the write batch
	var commit memory.CommitFunc
	if writable {
		commit = d.commit
	}

	forEach := func(fn func(*database.Key, []byte) error) error {
		return d.forEach(snap, err, fn)
	}

	// The memory changeset caches entries in a map so Get will see values
	// updated with Put, regardless of the underlying snapshot and write
	// batch behavior
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		ForEach: forEach,
		Discard: discard,
	})
}

func (d *Database) commit(entries map[database.KeyHash]memory.Entry) error {
	batch := new(leveldb.Batch)
	for _, e := range entries {
		k, err := e.Key.MarshalBinary()
		if err != nil {
			return errors.InternalError.WithFormat("invalid key %v: %w", e.Key, err)
		}
		if e.Delete {
			batch.Delete(k)
		} else {
			batch.Put(k, e.Value)
		}
	}

	return d.leveldb.Write(batch, nil)
}

func (d *Database) get(snap *leveldb.Snapshot, err error, key *database.Key) ([]byte, error) {
	if err != nil {
		return nil, errors.UnknownError.WithFormat("get snapshot: %w", err)
	}

	k, err := key.MarshalBinary()
	if err != nil {
		return nil, errors.InternalError.WithFormat("invalid key %v: %w", key, err)
	}

	v, err := snap.Get(k, nil)
	switch {
	case err == nil:
		u := make([]byte, len(v))
		copy(u, v)
		return u, nil
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, (*database.NotFoundError)(key)
	default:
		return nil, err
	}
}

func (d *Database) forEach(snap *leveldb.Snapshot, err error, fn func(*database.Key, []byte) error) error {
	if err != nil {
		return errors.UnknownError.WithFormat("get snapshot: %w", err)
	}

	it := snap.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		key := new(database.Key)
		err = key.UnmarshalBinary(it.Key())
		if err != nil {
			return errors.InternalError.WithFormat("decode key: %w", err)
		}

		value := make([]byte, len(it.Value()))
		copy(value, it.Value())
		err = fn(key, value)
		if err != nil {
			return err
		}
	}
	return it.Error()
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.leveldb.Close()
}
