// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"
	"sort"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/chain"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/state"
)

type broadcaster struct {
	log       *logger.L
	socket    *zmq.Socket
	publisher *state.Publisher
	receivers []*state.Receiver
}

// payloads
type chainParametersMessage struct {
	ChainParameters chain.Parameters `json:"chainParameters"`
}

type heightMessage struct {
	Height uint64 `json:"height"`
}

type nextRateDataMessage struct {
	Rates []stake.RateData `json:"rates"`
}

type recentAnchorsMessage struct {
	Anchors []merkle.Digest `json:"anchors"`
}

// subscribe before the background starts so no change is missed
func (brdc *broadcaster) initialise(log *logger.L, socket *zmq.Socket, publisher *state.Publisher) {
	brdc.log = log
	brdc.socket = socket
	brdc.publisher = publisher
	brdc.receivers = []*state.Receiver{
		publisher.Subscribe(state.ChainParametersTopic),
		publisher.Subscribe(state.HeightTopic),
		publisher.Subscribe(state.NextRateDataTopic),
		publisher.Subscribe(state.RecentAnchorsTopic),
	}
}

func (brdc *broadcaster) finalise() {
	for _, r := range brdc.receivers {
		r.Close()
	}
	brdc.receivers = nil
}

// Run - wait for changes and send them
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := brdc.log
	log.Info("starting…")

	r := brdc.receivers
loop:
	for {
		topic := state.Topic(-1)
		select {
		case <-shutdown:
			break loop
		case <-r[0].Changed():
			topic = r[0].Topic()
		case <-r[1].Changed():
			topic = r[1].Topic()
		case <-r[2].Changed():
			topic = r[2].Topic()
		case <-r[3].Changed():
			topic = r[3].Topic()
		}

		err := brdc.send(topic)
		if nil != err {
			log.Errorf("send: %s  error: %s", topic, err)
		}
	}
	log.Info("stopped")
}

func (brdc *broadcaster) send(topic state.Topic) error {
	payload, err := snapshot(brdc.publisher, topic)
	if nil != err {
		return err
	}
	brdc.log.Debugf("send: %s  %s", topic, payload)
	_, err = brdc.socket.SendMessage(topic.String(), payload)
	return err
}

// the current value of a topic as JSON
func snapshot(publisher *state.Publisher, topic state.Topic) ([]byte, error) {
	switch topic {
	case state.ChainParametersTopic:
		params, _ := publisher.ChainParameters()
		return json.Marshal(chainParametersMessage{ChainParameters: params})

	case state.HeightTopic:
		return json.Marshal(heightMessage{Height: publisher.Height()})

	case state.NextRateDataTopic:
		byID := publisher.NextRateData()
		rates := make([]stake.RateData, 0, len(byID))
		for _, rate := range byID {
			rates = append(rates, rate)
		}
		sort.Slice(rates, func(i, j int) bool {
			return rates[i].IdentityKey.Less(rates[j].IdentityKey)
		})
		return json.Marshal(nextRateDataMessage{Rates: rates})

	default:
		return json.Marshal(recentAnchorsMessage{Anchors: publisher.RecentAnchors()})
	}
}
