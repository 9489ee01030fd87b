// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - commit path instrumentation
type Metrics struct {
	BlocksCommitted prometheus.Counter
	CommitFailures  prometheus.Counter
	Height          prometheus.Gauge
	CommitDuration  prometheus.Histogram
}

// NewMetrics - unregistered collectors
func NewMetrics() *Metrics {
	return &Metrics{
		BlocksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shieldd",
			Subsystem: "state",
			Name:      "blocks_committed_total",
			Help:      "Blocks committed to the state.",
		}),
		CommitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shieldd",
			Subsystem: "state",
			Name:      "commit_failures_total",
			Help:      "Genesis or block commits that were aborted.",
		}),
		Height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shieldd",
			Subsystem: "state",
			Name:      "height",
			Help:      "Height of the last committed block.",
		}),
		CommitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shieldd",
			Subsystem: "state",
			Name:      "commit_duration_seconds",
			Help:      "Time taken by successful block commits.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register - add the collectors to a registry
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.BlocksCommitted, m.CommitFailures, m.Height, m.CommitDuration} {
		err := r.Register(c)
		if nil != err {
			return err
		}
	}
	return nil
}

func (m *Metrics) failed() {
	if nil == m {
		return
	}
	m.CommitFailures.Inc()
}

func (m *Metrics) committed(height uint64, start time.Time) {
	if nil == m {
		return
	}
	m.BlocksCommitted.Inc()
	m.Height.Set(float64(height))
	m.CommitDuration.Observe(time.Since(start).Seconds())
}
