// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// TruncateBadger controls whether Badger is configured to truncate corrupted
// data. Especially on Windows, if the process is terminated abruptly, setting
// this may be necessary to recover the database.
var TruncateBadger = false

// GCInterval is how often the value log garbage collector runs.
var GCInterval = time.Hour

type Database struct {
	badger *badger.DB
	ready  bool
	mu     sync.RWMutex
	done   chan struct{}
}

func New(filepath string) (*Database, error) {
	// Make sure all directories exist
	err := os.MkdirAll(filepath, 0700)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open badger: create %q: %w", filepath, err)
	}

	opts := badger.DefaultOptions(filepath)
	opts = opts.WithLogger(slogger{})

	// Truncate corrupted data
	if TruncateBadger {
		opts = opts.WithTruncate(true)
	}

	d := new(Database)
	d.ready = true
	d.done = make(chan struct{})

	// Open Badger
	d.badger, err = badger.Open(opts)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open badger: %w", err)
	}

	mDbOpen.Inc()
	go d.gc()

	return d, nil
}

// Begin begins a change set.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	// Use a read-only transaction for reading
	rd := d.badger.NewTransaction(false)

	// Read from the transaction
	get := func(key *database.Key) ([]byte, error) {
		k, err := key.MarshalBinary()
		if err != nil {
			return nil, errors.InternalError.WithFormat("marshal key: %w", err)
		}

		item, err := rd.Get(k)
		switch {
		case err == nil:
			// Ok
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, (*database.NotFoundError)(key)
		default:
			return nil, errors.UnknownError.WithFormat("get %v: %w", key, err)
		}

		v, err := item.ValueCopy(nil)
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, (*database.NotFoundError)(key)
		default:
			return nil, errors.UnknownError.WithFormat("get %v: %w", key, err)
		}
	}

	// Commit to the write batch
	var commit memory.CommitFunc
	if writable {
		commit = d.commit
	}

	forEach := func(fn func(*database.Key, []byte) error) error {
		it := rd.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := new(database.Key)
			err := key.UnmarshalBinary(item.KeyCopy(nil))
			if err != nil {
				return errors.InternalError.WithFormat("cannot unmarshal key: %w", err)
			}

			v, err := item.ValueCopy(nil)
			if err != nil {
				return errors.UnknownError.WithFormat("get %v: %w", key, err)
			}

			err = fn(key, v)
			if err != nil {
				return err
			}
		}
		return nil
	}

	// The memory changeset caches entries in a map so Get will see values
	// updated with Put, regardless of the underlying transaction and write
	// batch behavior
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		ForEach: forEach,
		Discard: rd.Discard,
	})
}

func (d *Database) commit(entries map[database.KeyHash]memory.Entry) error {
	l, err := d.lock(false)
	if err != nil {
		return err
	}
	defer l.Unlock()

	start := time.Now()
	defer func() { mCommitDuration.Set(time.Since(start).Seconds()) }()

	// Use a write batch for writing to work around Badger's limitations
	wr := d.badger.NewWriteBatch()

	for _, e := range entries {
		k, err := e.Key.MarshalBinary()
		if err != nil {
			wr.Cancel()
			return errors.InternalError.WithFormat("marshal key: %w", err)
		}
		if e.Delete {
			err = wr.Delete(k)
		} else {
			err = wr.Set(k, e.Value)
		}
		if err != nil {
			wr.Cancel()
			return err
		}
	}

	return wr.Flush()
}

// Close closes the underlying database.
func (d *Database) Close() error {
	if l, err := d.lock(true); err != nil {
		return err
	} else {
		defer l.Unlock()
	}

	d.ready = false
	close(d.done)
	mDbOpen.Dec()
	return d.badger.Close()
}

func (d *Database) gc() {
	tick := time.NewTicker(GCInterval)
	defer tick.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-tick.C:
		}

		// Still open?
		l, err := d.lock(false)
		if err != nil {
			return
		}

		// Run GC if 50% space could be reclaimed
		start := time.Now()
		err = d.badger.RunValueLogGC(0.5)
		if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
			slog.Error("Badger GC failed", "error", err, "module", "badger")
		}
		mGcRun.Inc()
		mGcDuration.Set(time.Since(start).Seconds())

		// Release the lock
		l.Unlock()
	}
}

// lock acquires a lock on the ready mutex and checks for readiness. This
// prevents races between commits and Close.
func (d *Database) lock(closing bool) (sync.Locker, error) {
	var l sync.Locker = &d.mu
	if !closing {
		l = d.mu.RLocker()
	}

	l.Lock()
	if !d.ready {
		l.Unlock()
		return nil, errors.NotReady.With("database is closed")
	}

	return l, nil
}
