// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package run

import (
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

func (i *Instrumentation) start(inst *Instance) error {
	// If there's no listening address, there's nothing to do
	if i == nil || i.Listen == "" {
		return nil
	}

	l, err := net.Listen("tcp", i.Listen)
	if err != nil {
		return err
	}
	inst.metricsAddr = l.Addr()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer, promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{},
		),
	))

	// Slow-loris prevention
	s := &http.Server{Handler: mux, ReadHeaderTimeout: time.Minute}

	inst.logger.Info("Listening", "module", "run", "address", l.Addr(), "path", "/metrics")
	inst.run(func() {
		err := s.Serve(l)
		if !errors.Is(err, http.ErrServerClosed) {
			inst.logger.Error("Server stopped (metrics)", "module", "run", "error", err)
		}
	})

	inst.cleanup("metrics", s.Shutdown)
	return nil
}
