// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package bolt

import (
	"log/slog"
	"time"

	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Database is a key-value database backed by Bolt. The first element of each
// key selects the bucket and the rest of the key is the bucket key.
type Database struct {
	opts
	bolt *bolt.DB
}

type opts struct {
	timeout time.Duration
}

type Option func(*opts) error

// WithTimeout sets how long Open waits for the file lock.
func WithTimeout(d time.Duration) Option {
	return func(o *opts) error {
		o.timeout = d
		return nil
	}
}

func Open(filepath string, o ...Option) (*Database, error) {
	d := new(Database)
	d.timeout = time.Second
	var err error
	for _, o := range o {
		err = o(&d.opts)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
	}

	// Open
	d.bolt, err = bolt.Open(filepath, 0600, &bolt.Options{Timeout: d.timeout})
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open bolt: %w", err)
	}

	return d, nil
}

func (d *Database) bucket(tx *bolt.Tx, key *database.Key, create bool) (*bolt.Bucket, []byte, error) {
	if key.Len() < 2 {
		return nil, nil, errors.InternalError.With("invalid key (1)")
	}

	s, ok := key.Get(0).(string)
	if !ok {
		return nil, nil, errors.InternalError.With("invalid key (2)")
	}

	b := tx.Bucket([]byte(s))
	if b == nil {
		if !create {
			// No reason to do more work
			return nil, nil, nil
		}

		var err error
		b, err = tx.CreateBucket([]byte(s))
		if err != nil {
			return nil, nil, err
		}
	}

	k, err := key.SliceI(1).MarshalBinary()
	if err != nil {
		return nil, nil, errors.InternalError.WithFormat("invalid key (3): %w", err)
	}
	return b, k, nil
}

// Begin begins a change set.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	// Use a read-only transaction for reading
	rd, err := d.bolt.Begin(false)

	// Discard the transaction
	discard := func() {
		if rd != nil {
			_ = rd.Rollback()
		}
	}

	// Read from the transaction
	get := func(key *database.Key) ([]byte, error) {
		return d.get(rd, err, key)
	}

	// Commit to the write batch
	var commit memory.CommitFunc
	if writable {
		commit = func(entries map[database.KeyHash]memory.Entry) error {
			return d.commit(rd, entries)
		}
	}

	forEach := func(fn func(*database.Key, []byte) error) error {
		if err != nil {
			return err
		}
		return d.forEach(rd, fn)
	}

	// The memory changeset caches entries in a map so Get will see values
	// updated with Put, regardless of the underlying transaction and write
	// batch behavior
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		ForEach: forEach,
		Discard: discard,
	})
}

func (d *Database) get(txn *bolt.Tx, err error, key *database.Key) ([]byte, error) {
	if err != nil {
		return nil, errors.UnknownError.WithFormat("begin bolt transaction: %w", err)
	}

	b, k, err := d.bucket(txn, key, false)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, (*database.NotFoundError)(key)
	}

	v := b.Get(k)
	if v == nil {
		return nil, (*database.NotFoundError)(key)
	}

	u := make([]byte, len(v))
	copy(u, v)
	return u, nil
}

func (d *Database) commit(rd *bolt.Tx, entries map[database.KeyHash]memory.Entry) error {
	// Discard the read transaction to unlock the database
	if rd != nil {
		_ = rd.Rollback()
	}

	return d.bolt.Update(func(tx *bolt.Tx) error {
		for _, e := range entries {
			b, k, err := d.bucket(tx, e.Key, true)
			if err != nil {
				return err
			}

			if e.Delete {
				err = b.Delete(k)
			} else {
				err = b.Put(k, e.Value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Database) forEach(txn *bolt.Tx, fn func(*database.Key, []byte) error) error {
	return txn.ForEach(func(name []byte, b *bolt.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			// Decode key
			key := new(database.Key)
			if err := key.UnmarshalBinary(k); err != nil {
				slog.Error("Cannot unmarshal database key", "key", k, "error", err, "module", "bolt")
				return errors.InternalError.WithFormat("cannot unmarshal key: %w", err)
			}

			// Add bucket
			key = database.NewKey(string(name)).AppendKey(key)

			// Copy value
			u := make([]byte, len(v))
			copy(u, v)

			return fn(key, u)
		})
	})
}

func (d *Database) Close() error {
	return d.bolt.Close()
}
