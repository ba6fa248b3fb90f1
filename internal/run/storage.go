// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package run

import (
	"context"
	"os"
	"path/filepath"

	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/badger"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/bolt"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/leveldb"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

func (s *Storage) open(inst *Instance) (keyvalue.Beginner, error) {
	if s == nil {
		s = new(Storage)
	}
	setDefaultVal(&s.Type, StorageTypeMemory)

	switch s.Type {
	case StorageTypeMemory:
		return memory.New(nil), nil

	case StorageTypeBolt:
		setDefaultVal(&s.Path, "capmint.db")
		path := inst.path(s.Path)
		err := os.MkdirAll(filepath.Dir(path), 0700)
		if err != nil {
			return nil, err
		}

		db, err := bolt.Open(path)
		if err != nil {
			return nil, errors.UnknownError.WithFormat("open bolt database: %w", err)
		}
		inst.cleanup("bolt", func(context.Context) error { return db.Close() })
		return db, nil

	case StorageTypeBadger:
		setDefaultVal(&s.Path, "capmint.badger")
		db, err := badger.New(inst.path(s.Path))
		if err != nil {
			return nil, errors.UnknownError.WithFormat("open badger database: %w", err)
		}
		inst.cleanup("badger", func(context.Context) error { return db.Close() })
		return db, nil

	case StorageTypeLevelDB:
		setDefaultVal(&s.Path, "capmint.leveldb")
		db, err := leveldb.OpenFile(inst.path(s.Path))
		if err != nil {
			return nil, errors.UnknownError.WithFormat("open leveldb database: %w", err)
		}
		inst.cleanup("leveldb", func(context.Context) error { return db.Close() })
		return db, nil

	default:
		return nil, errors.BadRequest.WithFormat("storage type %q is not supported", s.Type)
	}
}
