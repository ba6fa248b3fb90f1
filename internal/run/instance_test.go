// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package run

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/internal/logging"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

func startInstance(t *testing.T, cfg *Config) *Instance {
	t.Helper()
	inst, err := Start(context.Background(), cfg, Options{LogWriter: &logging.TestLogger{Test: t}})
	require.NoError(t, err)
	t.Cleanup(inst.Stop)
	return inst
}

func TestInstanceMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = &Storage{Type: StorageTypeMemory}
	cfg.Instrumentation = &Instrumentation{Listen: "127.0.0.1:0"}
	inst := startInstance(t, cfg)

	a := protocol.Address{1}
	ok, err := inst.Contract().RequestMint(a, protocol.Tokens(10, 18))
	require.NoError(t, err)
	require.True(t, ok)

	_, err = inst.Contract().RequestMint(a, protocol.Tokens(1, 18))
	require.ErrorIs(t, err, errors.MintCapReached)

	resp, err := http.Get(fmt.Sprintf("http://%v/metrics", inst.MetricsAddr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), "capmint_guard_mint_requests")
}

func TestInstancePersistence(t *testing.T) {
	for _, typ := range []StorageType{StorageTypeBolt, StorageTypeBadger, StorageTypeLevelDB} {
		t.Run(string(typ), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SetFilePath(filepath.Join(t.TempDir(), DefaultConfigFile))
			cfg.Storage = &Storage{Type: typ}

			a := protocol.Address{2}
			inst := startInstance(t, cfg)
			ok, err := inst.Contract().RequestMint(a, protocol.Tokens(3, 18))
			require.NoError(t, err)
			require.True(t, ok)
			inst.Stop()

			inst = startInstance(t, cfg)
			count, err := inst.Contract().MintCount(a)
			require.NoError(t, err)
			require.Equal(t, uint64(1), count.Uint64())

			supply, err := inst.Contract().TotalSupply()
			require.NoError(t, err)
			require.Equal(t, protocol.Tokens(3, 18), supply)
		})
	}
}

func TestInstanceDeployedPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetFilePath(filepath.Join(t.TempDir(), DefaultConfigFile))

	a := protocol.Address{3}
	inst := startInstance(t, cfg)
	ok, err := inst.Contract().RequestMint(a, protocol.Tokens(1, 18))
	require.NoError(t, err)
	require.True(t, ok)
	inst.Stop()

	// The limit is read with the decimals of the deployed token
	decimals := uint8(8)
	cfg.Token.Decimals = &decimals
	inst = startInstance(t, cfg)
	params, err := inst.Contract().Params()
	require.NoError(t, err)
	require.Equal(t, uint8(18), params.Decimals)
	require.Equal(t, protocol.Tokens(10, 18), inst.Contract().Policy().LimitPerMint)
	inst.Stop()

	// The policy cannot be loosened once tokens have been minted
	limit := uint64(5)
	cfg.Policy = &Policy{LimitPerMint: "1000", MintLimit: &limit}
	_, err = Start(context.Background(), cfg, Options{LogWriter: &logging.TestLogger{Test: t}})
	require.ErrorIs(t, err, errors.Conflict)

	cfg.Policy = nil
	inst = startInstance(t, cfg)
	_, err = inst.Contract().RequestMint(a, protocol.Tokens(500, 18))
	require.ErrorIs(t, err, errors.MintLimitExceeded)
	_, err = inst.Contract().RequestMint(a, protocol.Tokens(1, 18))
	require.ErrorIs(t, err, errors.MintCapReached)
}

func TestInstanceBadStorage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = &Storage{Type: "rocksdb"}
	_, err := Start(context.Background(), cfg, Options{LogWriter: &logging.TestLogger{Test: t}})
	require.ErrorIs(t, err, errors.BadRequest)
}
