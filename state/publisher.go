// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"sync"

	"github.com/bitmark-inc/shieldd/chain"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/stake"
)

// Topic - one published value
type Topic int

// the published values
const (
	ChainParametersTopic Topic = iota
	HeightTopic
	NextRateDataTopic
	RecentAnchorsTopic
)

// String - topic name
func (t Topic) String() string {
	switch t {
	case ChainParametersTopic:
		return "chain_parameters"
	case HeightTopic:
		return "height"
	case NextRateDataTopic:
		return "next_rate_data"
	case RecentAnchorsTopic:
		return "recent_anchors"
	default:
		return "unknown"
	}
}

// Publisher - last published chain state with change notification
//
// only the Writer publishes; any number of receivers read
type Publisher struct {
	sync.RWMutex

	chainParameters    chain.Parameters
	hasChainParameters bool
	height             uint64
	nextRateData       stake.RateDataByID
	recentAnchors      []merkle.Digest

	receivers map[Topic]map[*Receiver]struct{}
}

// Receiver - change notification for one topic
//
// notifications coalesce: a receiver that has not drained Changed sees
// a single pending signal however many values were published
type Receiver struct {
	publisher *Publisher
	topic     Topic
	changed   chan struct{}
}

func newPublisher() *Publisher {
	return &Publisher{
		nextRateData: stake.RateDataByID{},
		receivers:    make(map[Topic]map[*Receiver]struct{}),
	}
}

// Subscribe - a receiver for changes to topic
func (p *Publisher) Subscribe(topic Topic) *Receiver {
	p.Lock()
	defer p.Unlock()

	r := &Receiver{
		publisher: p,
		topic:     topic,
		changed:   make(chan struct{}, 1),
	}
	if nil == p.receivers[topic] {
		p.receivers[topic] = make(map[*Receiver]struct{})
	}
	p.receivers[topic][r] = struct{}{}
	return r
}

// Changed - signalled after each publication of the topic
func (r *Receiver) Changed() <-chan struct{} {
	return r.changed
}

// Topic - the subscribed topic
func (r *Receiver) Topic() Topic {
	return r.topic
}

// Close - stop notifications
func (r *Receiver) Close() {
	p := r.publisher
	p.Lock()
	defer p.Unlock()

	delete(p.receivers[r.topic], r)
}

// ChainParameters - false until genesis has been committed
func (p *Publisher) ChainParameters() (chain.Parameters, bool) {
	p.RLock()
	defer p.RUnlock()
	return p.chainParameters, p.hasChainParameters
}

// Height - height of the last committed block
func (p *Publisher) Height() uint64 {
	p.RLock()
	defer p.RUnlock()
	return p.height
}

// NextRateData - rates for the next epoch
func (p *Publisher) NextRateData() stake.RateDataByID {
	p.RLock()
	defer p.RUnlock()
	return p.nextRateData.Clone()
}

// RecentAnchors - newest first
func (p *Publisher) RecentAnchors() []merkle.Digest {
	p.RLock()
	defer p.RUnlock()
	anchors := make([]merkle.Digest, len(p.recentAnchors))
	copy(anchors, p.recentAnchors)
	return anchors
}

func (p *Publisher) publishChainParameters(params chain.Parameters) {
	p.Lock()
	defer p.Unlock()
	p.chainParameters = params
	p.hasChainParameters = true
	p.notify(ChainParametersTopic)
}

func (p *Publisher) publishHeight(height uint64) {
	p.Lock()
	defer p.Unlock()
	p.height = height
	p.notify(HeightTopic)
}

func (p *Publisher) publishNextRateData(rates stake.RateDataByID) {
	p.Lock()
	defer p.Unlock()
	p.nextRateData = rates.Clone()
	p.notify(NextRateDataTopic)
}

func (p *Publisher) publishRecentAnchors(anchors []merkle.Digest) {
	p.Lock()
	defer p.Unlock()
	p.recentAnchors = anchors
	p.notify(RecentAnchorsTopic)
}

// never blocks, so no receivers is not an error
func (p *Publisher) notify(topic Topic) {
	for r := range p.receivers[topic] {
		select {
		case r.changed <- struct{}{}:
		default:
		}
	}
}
