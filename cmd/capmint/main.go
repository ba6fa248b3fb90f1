// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/capmint/internal/run"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

var cmdMain = &cobra.Command{
	Use:   "capmint",
	Short: "Capped-mint token contract",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	WorkDir string
	Config  string
}

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.WorkDir, "work-dir", "w", ".", "Working directory for configuration and data")
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", run.DefaultConfigFile, "Configuration file, relative to the working directory")
}

func main() {
	_ = cmdMain.Execute()
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

func configPath() string {
	if filepath.IsAbs(flagMain.Config) {
		return flagMain.Config
	}
	return filepath.Join(flagMain.WorkDir, flagMain.Config)
}

func loadConfig() (*run.Config, error) {
	cfg := new(run.Config)
	err := cfg.LoadFrom(configPath())
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, errors.NotFound.WithFormat("%s does not exist, run `capmint init` to create it", configPath())
	default:
		return nil, errors.BadRequest.WithFormat("load %s: %w", configPath(), err)
	}
}

// withInstance loads the configuration, starts an instance, and calls fn. The
// instance is stopped before withInstance returns, so storage is closed even
// when the caller exits on error.
func withInstance(cmd *cobra.Command, fn func(*run.Instance) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inst, err := run.Start(context.Background(), cfg, run.Options{LogWriter: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer inst.Stop()
	return fn(inst)
}
