// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package run

import (
	"io/fs"
	"log/slog"
)

// Config is the configuration of a capmint instance.
type Config struct {
	file string
	fs   fs.FS

	// DotEnv enables ${VAR} expansion using the .env file next to the
	// configuration file.
	DotEnv          *bool            `json:"dotEnv,omitempty"`
	Token           *Token           `json:"token,omitempty"`
	Policy          *Policy          `json:"policy,omitempty"`
	Storage         *Storage         `json:"storage,omitempty"`
	Logging         *Logging         `json:"logging,omitempty"`
	Instrumentation *Instrumentation `json:"instrumentation,omitempty"`
}

// Token is the set of parameters the token is deployed with. Amounts are in
// display units.
type Token struct {
	Name      string `json:"name,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Decimals  *uint8 `json:"decimals,omitempty"`
	MaxSupply string `json:"maxSupply,omitempty"`
}

// Policy is the mint policy. LimitPerMint is in display units.
type Policy struct {
	LimitPerMint string  `json:"limitPerMint,omitempty"`
	MintLimit    *uint64 `json:"mintLimit,omitempty"`
}

type StorageType string

const (
	StorageTypeMemory  StorageType = "memory"
	StorageTypeBolt    StorageType = "bolt"
	StorageTypeBadger  StorageType = "badger"
	StorageTypeLevelDB StorageType = "leveldb"
)

type Storage struct {
	Type StorageType `json:"type,omitempty"`

	// Path is the database file or directory, relative to the directory of
	// the configuration file.
	Path string `json:"path,omitempty"`
}

type Logging struct {
	// Format is text (the default) or json.
	Format string         `json:"format,omitempty"`
	Rules  []*LoggingRule `json:"rules,omitempty"`
}

// LoggingRule sets the level of a module. A rule with no module sets the
// default level.
type LoggingRule struct {
	Module string     `json:"module,omitempty"`
	Level  slog.Level `json:"level"`
}

type Instrumentation struct {
	// Listen is the address the metrics server listens on. If it is empty
	// metrics are not served.
	Listen string `json:"listen,omitempty"`
}
