// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - the initial application state of a chain
package genesis

import (
	"encoding/json"
	"io/ioutil"

	"github.com/bitmark-inc/shieldd/chain"
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/stake"
)

// ValidatorPower - a genesis validator and its initial voting power
type ValidatorPower struct {
	Validator stake.Validator `json:"validator"`
	Power     uint64          `json:"power"`
}

// Allocation - tokens minted to an address at genesis
type Allocation struct {
	Amount  uint64 `json:"amount"`
	Denom   string `json:"denom"`
	Address string `json:"address"`
}

// AppState - the genesis configuration
type AppState struct {
	ChainParams chain.Parameters `json:"chainParams"`
	Validators  []ValidatorPower `json:"validators"`
	Allocations []Allocation     `json:"allocations"`
}

// LoadFile - read and validate a JSON genesis file
func LoadFile(fileName string) (*AppState, error) {
	buffer, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return Unpack(buffer)
}

// Unpack - decode and validate a JSON genesis document
func Unpack(buffer []byte) (*AppState, error) {
	appState := &AppState{}
	err := json.Unmarshal(buffer, appState)
	if nil != err {
		return nil, err
	}
	err = appState.Validate()
	if nil != err {
		return nil, err
	}
	return appState, nil
}

// Pack - the stored form of the configuration
func (appState *AppState) Pack() ([]byte, error) {
	return json.Marshal(appState)
}

// Validate - check the chain parameters, validators and allocations
func (appState *AppState) Validate() error {
	err := appState.ChainParams.Validate()
	if nil != err {
		return err
	}

	seen := make(map[stake.IdentityKey]struct{})
	for _, v := range appState.Validators {
		if _, ok := seen[v.Validator.IdentityKey]; ok {
			return fault.ErrKeyExists
		}
		seen[v.Validator.IdentityKey] = struct{}{}

		err = v.Validator.Validate()
		if nil != err {
			return err
		}
	}

	for _, a := range appState.Allocations {
		if "" == a.Denom || "" == a.Address || 0 == a.Amount {
			return fault.ErrInvalidAllocation
		}
	}
	return nil
}

// Supplies - total allocated amount of each denomination
func (appState *AppState) Supplies() map[string]uint64 {
	supplies := make(map[string]uint64)
	for _, a := range appState.Allocations {
		supplies[a.Denom] += a.Amount
	}
	return supplies
}
