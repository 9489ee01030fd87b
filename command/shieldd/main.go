// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/genesis"
	"github.com/bitmark-inc/shieldd/publish"
	"github.com/bitmark-inc/shieldd/state"
	"github.com/bitmark-inc/shieldd/storage"
	"github.com/bitmark-inc/shieldd/version"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version.Version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// channel for last resort logging of panics
	err = fault.Initialise()
	if nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Name, false)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	metrics := state.NewMetrics()
	err = metrics.Register(registry)
	if nil != err {
		log.Criticalf("metrics register error: %s", err)
		exitwithstatus.Message("metrics register error: %s", err)
	}

	// state writer loads height, anchors and rates from storage
	log.Info("initialise state")
	writer, err := state.New(store, metrics)
	if nil != err {
		log.Criticalf("state initialise error: %s", err)
		exitwithstatus.Message("state initialise error: %s", err)
	}

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, writer) {
		return
	}

	err = ensureGenesis(log, writer, theConfiguration.GenesisFile)
	if nil != err {
		log.Criticalf("genesis error: %s", err)
		exitwithstatus.Message("genesis error: %s", err)
	}

	// metrics scrape endpoint
	if "" != theConfiguration.MetricsListen {
		handler := metricsHandler(registry)
		go func() {
			log.Infof("metrics listener on: %s", theConfiguration.MetricsListen)
			err := http.ListenAndServe(theConfiguration.MetricsListen, handler)
			exitwithstatus.Message("metrics error: %s", err)
		}()
	}

	// start up the publishing background process
	if len(theConfiguration.Publishing.Broadcast) > 0 {
		log.Info("initialise publish")
		err = publish.Initialise(&theConfiguration.Publishing, writer.Publisher())
		if nil != err {
			log.Criticalf("publish initialise error: %s", err)
			exitwithstatus.Message("publish initialise error: %s", err)
		}
		defer publish.Finalise()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// commit the genesis file if the chain is empty
func ensureGenesis(log *logger.L, writer *state.Writer, fileName string) error {
	appState, err := writer.Reader().GenesisConfiguration()
	if nil == err {
		log.Infof("chain: %q  genesis already committed", appState.ChainParams.ChainID)
		return nil
	}
	if fault.ErrGenesisNotFound != err {
		return err
	}

	log.Infof("load genesis from: %q", fileName)
	appState, err = genesis.LoadFile(fileName)
	if nil != err {
		return err
	}
	err = writer.CommitGenesis(appState)
	if nil != err {
		return err
	}
	log.Infof("chain: %q  genesis committed", appState.ChainParams.ChainID)
	return nil
}
