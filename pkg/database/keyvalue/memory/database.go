// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"sync"

	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
)

type Database struct {
	mu      sync.RWMutex
	entries map[database.KeyHash]Entry
	prefix  *database.Key
}

var _ keyvalue.Beginner = (*Database)(nil)

func New(prefix *database.Key) *Database {
	return &Database{prefix: prefix}
}

// Begin begins a change set.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	var commit CommitFunc
	if writable {
		commit = d.put
	}
	return NewChangeSet(ChangeSetOptions{
		Prefix:  prefix,
		Get:     d.get,
		Commit:  commit,
		ForEach: d.forEach,
	})
}

// Export exports the database as a set of entries. Behavior is undefined if the
// database was created with a prefix.
func (d *Database) Export() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		entries = append(entries, e)
	}
	return entries
}

// Import imports a set of entries into the database. Behavior is undefined if
// the database was created with a prefix.
func (d *Database) Import(entries []Entry) error {
	m := make(map[database.KeyHash]Entry, len(entries))
	for _, e := range entries {
		m[e.Key.Hash()] = e
	}
	return d.put(m)
}

func (d *Database) get(key *database.Key) ([]byte, error) {
	// Prefix the key
	key = d.prefix.AppendKey(key)

	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, ok := d.entries[key.Hash()]
	if !ok {
		return nil, (*database.NotFoundError)(key)
	}

	v := make([]byte, len(entry.Value))
	copy(v, entry.Value)
	return v, nil
}

func (d *Database) put(entries map[database.KeyHash]Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entries == nil {
		d.entries = make(map[database.KeyHash]Entry, len(entries))
	}

	for _, e := range entries {
		// Prefix the key
		key := d.prefix.AppendKey(e.Key)

		if e.Delete {
			delete(d.entries, key.Hash())
		} else {
			d.entries[key.Hash()] = Entry{Key: key, Value: e.Value}
		}
	}
	return nil
}

func (d *Database) forEach(fn func(*database.Key, []byte) error) error {
	// Copy the entries so fn can call back into the database
	d.mu.RLock()
	entries := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		entries = append(entries, e)
	}
	d.mu.RUnlock()

	for _, e := range entries {
		key := e.Key
		if d.prefix.Len() > 0 {
			if !key.HasPrefix(d.prefix) {
				continue
			}
			key = key.SliceI(d.prefix.Len())
		}
		err := fn(key, e.Value)
		if err != nil {
			return err
		}
	}
	return nil
}
