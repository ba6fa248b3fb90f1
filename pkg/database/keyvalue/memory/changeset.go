// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"gitlab.com/accumulatenetwork/capmint/pkg/database"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

type Entry struct {
	Key    *database.Key
	Value  []byte
	Delete bool
}

type GetFunc = func(*database.Key) ([]byte, error)
type CommitFunc = func(map[database.KeyHash]Entry) error
type ForEachFunc = func(func(*database.Key, []byte) error) error

type ChangeSetOptions struct {
	Prefix  *database.Key
	Get     GetFunc
	Commit  CommitFunc
	ForEach ForEachFunc
	Discard func()
}

// ChangeSet caches writes in memory until it is committed. Reads see the
// pending writes of the change set before falling back to the parent.
type ChangeSet struct {
	opts    ChangeSetOptions
	entries map[database.KeyHash]Entry
	done    bool
}

var _ keyvalue.ChangeSet = (*ChangeSet)(nil)

func NewChangeSet(opts ChangeSetOptions) *ChangeSet {
	return &ChangeSet{
		opts:    opts,
		entries: map[database.KeyHash]Entry{},
	}
}

// Begin begins a nested change set. Committing the nested change set writes
// its changes into this one.
func (c *ChangeSet) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	var commit CommitFunc
	if writable {
		commit = c.putAll
	}
	return NewChangeSet(ChangeSetOptions{
		Prefix:  prefix,
		Get:     c.Get,
		Commit:  commit,
		ForEach: c.ForEach,
	})
}

func (c *ChangeSet) Get(key *database.Key) ([]byte, error) {
	if c.done {
		return nil, errors.NotAllowed.With("change set has been committed or discarded")
	}

	key = c.opts.Prefix.AppendKey(key)
	if e, ok := c.entries[key.Hash()]; ok {
		if e.Delete {
			return nil, (*database.NotFoundError)(key)
		}
		v := make([]byte, len(e.Value))
		copy(v, e.Value)
		return v, nil
	}

	if c.opts.Get == nil {
		return nil, (*database.NotFoundError)(key)
	}
	return c.opts.Get(key)
}

func (c *ChangeSet) Put(key *database.Key, value []byte) error {
	return c.set(key, value, false)
}

func (c *ChangeSet) Delete(key *database.Key) error {
	return c.set(key, nil, true)
}

func (c *ChangeSet) set(key *database.Key, value []byte, delete bool) error {
	if c.done {
		return errors.NotAllowed.With("change set has been committed or discarded")
	}
	if c.opts.Commit == nil {
		return errors.NotAllowed.With("change set is read-only")
	}

	key = c.opts.Prefix.AppendKey(key)
	v := make([]byte, len(value))
	copy(v, value)
	c.entries[key.Hash()] = Entry{Key: key, Value: v, Delete: delete}
	return nil
}

// ForEach iterates over the parent's entries, overlaid with the pending
// changes. Only keys under the change set's prefix are visited and the prefix
// is removed before calling fn.
func (c *ChangeSet) ForEach(fn func(*database.Key, []byte) error) error {
	if c.done {
		return errors.NotAllowed.With("change set has been committed or discarded")
	}

	visit := func(key *database.Key, value []byte) error {
		if !key.HasPrefix(c.opts.Prefix) {
			return nil
		}
		return fn(key.SliceI(c.opts.Prefix.Len()), value)
	}

	if c.opts.ForEach != nil {
		err := c.opts.ForEach(func(key *database.Key, value []byte) error {
			if _, ok := c.entries[key.Hash()]; ok {
				return nil
			}
			return visit(key, value)
		})
		if err != nil {
			return err
		}
	}

	for _, e := range c.entries {
		if e.Delete {
			continue
		}
		err := visit(e.Key, e.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *ChangeSet) putAll(entries map[database.KeyHash]Entry) error {
	for _, e := range entries {
		err := c.set(e.Key, e.Value, e.Delete)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *ChangeSet) Commit() error {
	if c.done {
		return errors.NotAllowed.With("change set has been committed or discarded")
	}
	defer c.Discard()

	if c.opts.Commit == nil || len(c.entries) == 0 {
		return nil
	}
	return c.opts.Commit(c.entries)
}

func (c *ChangeSet) Discard() {
	if c.done {
		return
	}
	c.done = true
	if c.opts.Discard != nil {
		c.opts.Discard()
	}
}
