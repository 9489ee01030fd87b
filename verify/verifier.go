// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/transactionrecord"
)

// Verifier - stateless verification with logging and metrics
type Verifier struct {
	log     *logger.L
	caps    Capabilities
	metrics *Metrics
	workers int
}

// Result - outcome of verifying one transaction
type Result struct {
	Pending *PendingTransaction
	Err     error
}

// New - create a verifier, metrics may be nil
func New(caps Capabilities, metrics *Metrics) *Verifier {
	return &Verifier{
		log:     logger.New("verify"),
		caps:    caps,
		metrics: metrics,
		workers: runtime.NumCPU(),
	}
}

// Verify - stateless verification of one transaction
func (v *Verifier) Verify(tx *transactionrecord.Transaction) (*PendingTransaction, error) {
	pending, err := Stateless(tx, v.caps)
	v.metrics.observe(err)
	if nil != err {
		v.log.Debugf("rejected: %s", err)
		return nil, err
	}
	v.log.Debugf("accepted: %s", pending.ID)
	return pending, nil
}

// VerifyBatch - verify many transactions in parallel
//
// results are in input order; a failed transaction does not stop the
// others, only cancellation of ctx does
func (v *Verifier) VerifyBatch(ctx context.Context, txs []*transactionrecord.Transaction) ([]Result, error) {
	results := make([]Result, len(txs))

	g, ctx := errgroup.WithContext(ctx)
	next := make(chan int)

	g.Go(func() error {
		defer close(next)
		for i := range txs {
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < v.workers; w += 1 {
		g.Go(func() error {
			for i := range next {
				pending, err := v.Verify(txs[i])
				results[i] = Result{Pending: pending, Err: err}
			}
			return nil
		})
	}

	err := g.Wait()
	if nil != err {
		return nil, err
	}
	return results, nil
}
