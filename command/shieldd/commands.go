// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/publish"
	"github.com/bitmark-inc/shieldd/state"
	"github.com/bitmark-inc/shieldd/version"
)

const (
	publishPublicKeyFilename  = "publish.public"
	publishPrivateKeyFilename = "publish.private"
)

// setup command handler
//
// commands that run to create key files these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-publish-identity", "publish":
		publicKeyFilename := getFilenameWithDirectory(arguments, publishPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, publishPrivateKeyFilename)
		err := publish.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "start", "run":
		return false // continue processing

	case "status", "s":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version.Version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                         (h)       - display this message\n\n")
		fmt.Printf("  version                      (v)       - display version string\n\n")

		fmt.Printf("  gen-publish-identity [DIR]   (publish) - create private key in: %q\n", "DIR/"+publishPrivateKeyFilename)
		fmt.Printf("                                           and the public key in: %q\n", "DIR/"+publishPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                        (run)     - just run the program, same as no arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                  (cfg)     - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  status                       (s)       - display height, anchors and next rates\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJSON(options)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// storage and state are open so these commands can read the
// committed data
func processDataCommand(log *logger.L, arguments []string, writer *state.Writer) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "start", "run":
		return false // continue processing

	case "status", "s":
		reader := writer.Reader()
		height, err := reader.Height()
		if nil != err {
			exitwithstatus.Message("height error: %s", err)
		}
		anchors, err := reader.RecentAnchors(state.RecentAnchorsLimit)
		if nil != err {
			exitwithstatus.Message("recent anchors error: %s", err)
		}
		rates, err := reader.NextRateData()
		if nil != err && fault.ErrRateNotFound != err {
			exitwithstatus.Message("next rate data error: %s", err)
		}
		log.Infof("status at height: %d", height)
		printJSON(struct {
			Height  uint64      `json:"height"`
			Anchors interface{} `json:"anchors"`
			Rates   interface{} `json:"rates"`
		}{
			Height:  height,
			Anchors: anchors,
			Rates:   rates,
		})

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}

	return true
}

func printJSON(item interface{}) {
	b, err := json.Marshal(item)
	if err != nil {
		exitwithstatus.Message("error: %s", err)
	}
	var out bytes.Buffer
	json.Indent(&out, b, "", "  ")
	out.WriteTo(os.Stdout)
	os.Stdout.WriteString("\n")
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
