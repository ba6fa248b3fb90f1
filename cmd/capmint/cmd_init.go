// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/capmint/internal/run"
)

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	Run:   initConfig,
}

var flagInit struct {
	Reset   bool
	Storage string
}

func init() {
	cmdMain.AddCommand(cmdInit)

	cmdInit.Flags().BoolVar(&flagInit.Reset, "reset", false, "Overwrite an existing configuration")
	cmdInit.Flags().StringVar(&flagInit.Storage, "storage", string(run.StorageTypeBolt), "Storage type: memory, bolt, badger, or leveldb")
}

func initConfig(cmd *cobra.Command, _ []string) {
	file := configPath()
	_, err := os.Stat(file)
	switch {
	case err == nil && !flagInit.Reset:
		fatalf("%s already exists, use --reset to overwrite it", file)
	case err != nil && !os.IsNotExist(err):
		checkf(err, "stat %s", file)
	}

	cfg := run.DefaultConfig()
	switch run.StorageType(flagInit.Storage) {
	case run.StorageTypeMemory:
		cfg.Storage = &run.Storage{Type: run.StorageTypeMemory}
	case run.StorageTypeBolt:
	case run.StorageTypeBadger:
		cfg.Storage = &run.Storage{Type: run.StorageTypeBadger, Path: "capmint.badger"}
	case run.StorageTypeLevelDB:
		cfg.Storage = &run.Storage{Type: run.StorageTypeLevelDB, Path: "capmint.leveldb"}
	default:
		fatalf("storage type %q is not supported", flagInit.Storage)
	}

	check(os.MkdirAll(filepath.Dir(file), 0700))
	checkf(cfg.SaveTo(file), "write %s", file)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", file)
}
