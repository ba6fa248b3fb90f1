// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/internal/run"
	"gitlab.com/accumulatenetwork/capmint/pkg/database/keyvalue/bolt"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

func init() { color.NoColor = true }

func execute(t *testing.T, args ...string) string {
	t.Helper()
	out := new(bytes.Buffer)
	cmdMain.SetOut(out)
	cmdMain.SetErr(new(bytes.Buffer))
	cmdMain.SetArgs(args)
	require.NoError(t, cmdMain.Execute(), "when executing: %s", strings.Join(args, " "))
	return out.String()
}

func TestCommands(t *testing.T) {
	for _, storage := range []string{"bolt", "badger", "leveldb"} {
		t.Run(storage, func(t *testing.T) {
			dir := t.TempDir()
			a := protocol.Address{0xA}.String()

			out := execute(t, "-w", dir, "init", "--storage", storage)
			require.Contains(t, out, filepath.Join(dir, "capmint.toml"))

			out = execute(t, "-w", dir, "count", a)
			require.Equal(t, "0 of 1\n", out)

			out = execute(t, "-w", dir, "mint", a, "10")
			require.Contains(t, out, "Minted 10 OP_PIZZA to "+a)

			out = execute(t, "-w", dir, "count", a)
			require.Equal(t, "1 of 1\n", out)

			out = execute(t, "-w", dir, "balance", a)
			require.Equal(t, "10 OP_PIZZA\n", out)

			out = execute(t, "-w", dir, "info")
			require.Contains(t, out, "10 OP_PIZZA")
			require.Contains(t, out, "2,000,000 OP_PIZZA")

			out = execute(t, "-w", dir, "is-owner", a)
			require.Equal(t, "true\n", out)
		})
	}
}

func TestInstanceStoppedOnError(t *testing.T) {
	dir := t.TempDir()
	a := protocol.Address{0xB}

	execute(t, "-w", dir, "init", "--storage", "bolt")
	execute(t, "-w", dir, "mint", a.String(), "1")

	flagMain.WorkDir = dir
	err := withInstance(cmdMint, func(inst *run.Instance) error {
		_, err := requestMint(inst.Contract(), a, protocol.Tokens(1, 18))
		return err
	})
	require.ErrorIs(t, err, errors.MintCapReached)

	// The database is closed, so its lock is free
	db, err := bolt.Open(filepath.Join(dir, "capmint.db"), bolt.WithTimeout(100*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSelectors(t *testing.T) {
	out := execute(t, "selectors")
	lines := strings.Split(out, "\n")
	require.Contains(t, lines[0], "Selector")
	for _, op := range protocol.Operations() {
		var found bool
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) == 2 && fields[0] == op.Selector().String() && fields[1] == op.String() {
				found = true
			}
		}
		require.True(t, found, "missing %v", op)
	}
}

func TestFormatTokens(t *testing.T) {
	params := protocol.DefaultTokenParams()
	require.Equal(t, "2,000,000 OP_PIZZA", formatTokens(params.MaxSupply, params))

	v, err := protocol.ParseAmount("1234.5", params.Decimals)
	require.NoError(t, err)
	require.Equal(t, "1,234.5 OP_PIZZA", formatTokens(v, params))
}
