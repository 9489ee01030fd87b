// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - rebroadcast committed chain state over ZeroMQ
//
// each change is sent as a two part message: the topic name followed by
// the JSON encoded value, so subscribers can filter on the topic frame
package publish

import (
	"sync"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/background"
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/state"
)

// zap domain for the curve server
const zapDomain = "shieldd.publish"

// Configuration - publishing endpoints
//
// the keys are optional, without them the socket is not encrypted
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// globals for background process
type publishData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	brdc   broadcaster
	curve  bool
	socket *zmq.Socket

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData publishData

// Initialise - bind the broadcast socket and start the background process
func Initialise(configuration *Configuration, publisher *state.Publisher) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("publish")
	globalData.log = log
	log.Info("starting…")

	if 0 == len(configuration.Broadcast) {
		return fault.ErrMissingBroadcast
	}

	socket, curve, err := newSocket(log, configuration)
	if nil != err {
		return err
	}
	globalData.socket = socket
	globalData.curve = curve

	globalData.brdc.initialise(log, socket, publisher)

	// all data initialised
	globalData.initialised = true

	// start background processes
	log.Info("start background…")

	processes := background.Processes{
		&globalData.brdc,
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

func newSocket(log *logger.L, configuration *Configuration) (*zmq.Socket, bool, error) {
	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, false, err
	}
	socket.SetLinger(0)

	curve := "" != configuration.PrivateKey
	if curve {
		privateKey, err := ReadPrivateKeyFile(configuration.PrivateKey)
		if nil != err {
			log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
			socket.Close()
			return nil, false, err
		}

		err = zmq.AuthStart()
		if nil != err {
			socket.Close()
			return nil, false, err
		}

		// allow any client to connect
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)
		socket.SetCurveServer(1)
		socket.SetCurveSecretkey(string(privateKey))
		socket.SetZapDomain(zapDomain)
	}

	for i, address := range configuration.Broadcast {
		err := socket.Bind(address)
		if nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, address, err)
			socket.Close()
			if curve {
				zmq.AuthStop()
			}
			return nil, false, err
		}
		log.Infof("bind[%d]: %q  curve: %t", i, address, curve)
	}
	return socket, curve, nil
}

// Finalise - stop the background process and close the socket
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// stop background
	globalData.background.Stop()

	globalData.brdc.finalise()
	globalData.socket.Close()
	if globalData.curve {
		zmq.AuthStop()
	}

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
