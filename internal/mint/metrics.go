// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package mint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultMinted   = "minted"
	resultDeclined = "declined"
	resultLimit    = "limit_exceeded"
	resultCap      = "cap_reached"
	resultError    = "error"
)

var mRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "capmint",
	Subsystem: "guard",
	Name:      "mint_requests",
	Help:      "Mint requests by result",
}, []string{"result"})
