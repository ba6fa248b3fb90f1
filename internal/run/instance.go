// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package run

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gitlab.com/accumulatenetwork/capmint/internal/contract"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// Instance is a running capmint contract with its storage, logging and
// metrics.
type Instance struct {
	config  *Config
	rootDir string

	running  *sync.WaitGroup    // tracks jobs that want a graceful shutdown
	context  context.Context    // canceled when the instance shuts down
	shutdown context.CancelFunc // shuts down the instance
	logger   *slog.Logger

	contract    *contract.Contract
	metricsAddr net.Addr
}

type Options struct {
	// LogWriter is where logs are written. Defaults to stderr.
	LogWriter io.Writer
}

func Start(ctx context.Context, cfg *Config, opts Options) (*Instance, error) {
	inst, err := New(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return inst, inst.Start()
}

func New(ctx context.Context, cfg *Config, opts Options) (*Instance, error) {
	inst := new(Instance)
	inst.config = cfg
	inst.running = new(sync.WaitGroup)
	inst.context, inst.shutdown = context.WithCancel(ctx)

	var err error
	if cfg.file != "" {
		inst.rootDir, err = filepath.Abs(filepath.Dir(cfg.file))
	} else {
		inst.rootDir, err = os.Getwd()
	}
	if err != nil {
		return nil, err
	}

	// Setup logging
	setDefaultVal[io.Writer](&opts.LogWriter, os.Stderr)
	inst.logger, err = cfg.Logging.newLogger(opts.LogWriter)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("start logging: %w", err)
	}

	return inst, nil
}

func (inst *Instance) Start() (err error) {
	// Cleanup if boot fails
	defer func() {
		if err != nil {
			inst.Stop()
		}
	}()

	params, err := inst.config.TokenParams()
	if err != nil {
		return err
	}

	err = inst.config.Instrumentation.start(inst)
	if err != nil {
		return errors.UnknownError.WithFormat("start instrumentation: %w", err)
	}

	db, err := inst.config.Storage.open(inst)
	if err != nil {
		return errors.UnknownError.WithFormat("open storage: %w", err)
	}

	// Amounts in the policy are parsed with the decimals of the deployed
	// token, if there is one
	deployed, err := contract.New(contract.Options{Database: db, Logger: inst.logger})
	if err != nil {
		return err
	}
	saved, err := deployed.Params()
	switch {
	case err == nil:
		if !saved.Equal(params) {
			inst.logger.Warn("Token configuration does not match the deployed token; using the deployed token", "module", "run",
				"name", saved.Name, "symbol", saved.Symbol, "decimals", saved.Decimals)
		}
		params = saved
	case errors.Is(err, errors.NotReady):
	default:
		return errors.UnknownError.WithFormat("load token: %w", err)
	}

	policy, err := inst.config.MintPolicy(params.Decimals)
	if err != nil {
		return err
	}

	// Fails if the policy does not match the deployed policy
	inst.contract, err = contract.New(contract.Options{
		Database: db,
		Policy:   policy,
		Logger:   inst.logger,
	})
	if err != nil {
		return err
	}

	// Deploy the token unless the database already holds one
	err = inst.contract.Deploy(params)
	switch {
	case err == nil:
	case errors.Is(err, errors.Conflict):
		inst.logger.Debug("Token is already deployed", "module", "run")
	default:
		return errors.UnknownError.WithFormat("deploy: %w", err)
	}

	return nil
}

// Contract returns the contract. It is nil until the instance is started.
func (i *Instance) Contract() *contract.Contract { return i.contract }

// Logger returns the instance's logger.
func (i *Instance) Logger() *slog.Logger { return i.logger }

// MetricsAddr returns the address of the metrics server, or nil if metrics
// are not served.
func (i *Instance) MetricsAddr() net.Addr { return i.metricsAddr }

func (i *Instance) Done() <-chan struct{} { return i.context.Done() }

func (i *Instance) Stop() {
	i.shutdown()
	i.running.Wait()
}

func (i *Instance) run(fn func()) {
	i.running.Add(1)
	go func() {
		defer i.running.Done()
		fn()
	}()
}

func (i *Instance) cleanup(name string, fn func(context.Context) error) {
	i.running.Add(1)
	go func() {
		defer i.running.Done()
		<-i.context.Done()

		i.logger.Debug("Stopping", "module", "run", "process", name)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := fn(ctx)
		if err != nil {
			i.logger.Error("Error during shutdown", "module", "run", "error", err, "process", name)
		} else {
			i.logger.Debug("Stopped", "module", "run", "process", name)
		}
	}()
}

func (i *Instance) path(path ...string) string {
	if len(path) == 0 {
		return i.rootDir
	}
	if filepath.IsAbs(path[0]) {
		return filepath.Join(path...)
	}
	return filepath.Join(append([]string{i.rootDir}, path...)...)
}
