// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Badger database driver metrics
var (
	mDbOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "capmint",
		Subsystem: "badger",
		Name:      "db_open",
		Help:      "Number of open databases",
	})
	mGcRun = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "capmint",
		Subsystem: "badger",
		Name:      "gc_run",
		Help:      "Number of times garbage collection has run",
	})
	mGcDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "capmint",
		Subsystem: "badger",
		Name:      "gc_duration",
		Help:      "Garbage collection duration in seconds",
	})
	mCommitDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "capmint",
		Subsystem: "badger",
		Name:      "commit_duration",
		Help:      "Commit duration in seconds",
	})
)
