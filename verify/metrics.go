// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/shieldd/fault"
)

// Metrics - verification counters
type Metrics struct {
	Accepted prometheus.Counter
	Rejected *prometheus.CounterVec
}

// NewMetrics - unregistered counters
func NewMetrics() *Metrics {
	return &Metrics{
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shieldd",
			Subsystem: "verify",
			Name:      "accepted_total",
			Help:      "Transactions that passed stateless verification.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shieldd",
			Subsystem: "verify",
			Name:      "rejected_total",
			Help:      "Transactions that failed stateless verification, by reason.",
		}, []string{"reason"}),
	}
}

// Register - add the counters to a registry
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Accepted, m.Rejected} {
		err := r.Register(c)
		if nil != err {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(err error) {
	if nil == m {
		return
	}
	if nil == err {
		m.Accepted.Inc()
		return
	}
	m.Rejected.WithLabelValues(reason(err)).Inc()
}

// label for a verification failure
func reason(err error) string {
	switch err {
	case fault.ErrBindingSignatureInvalid:
		return "binding_signature"
	case fault.ErrSpendAuthInvalid:
		return "spend_auth"
	case fault.ErrSpendProofInvalid:
		return "spend_proof"
	case fault.ErrOutputProofInvalid:
		return "output_proof"
	case fault.ErrDoubleSpendWithinTransaction:
		return "double_spend"
	case fault.ErrUnsupportedAction:
		return "unsupported_action"
	default:
		return "malformed"
	}
}
