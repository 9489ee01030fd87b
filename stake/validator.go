// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stake

import (
	"github.com/bitmark-inc/shieldd/fault"
)

// MaximumRateBps - 100% in basis points
const MaximumRateBps = 10000

// FundingStream - share of a validator's rewards sent to an address
type FundingStream struct {
	Address string `json:"address"`
	RateBps uint16 `json:"rateBps"`
}

// Validator - a validator definition
type Validator struct {
	IdentityKey    IdentityKey     `json:"identityKey"`
	ConsensusKey   ConsensusKey    `json:"consensusKey"`
	SequenceNumber uint32          `json:"sequenceNumber"`
	Name           string          `json:"name"`
	Website        string          `json:"website"`
	Description    string          `json:"description"`
	FundingStreams []FundingStream `json:"fundingStreams"`
}

// Validate - check the funding streams do not exceed 100% in total
func (v *Validator) Validate() error {
	total := 0
	for _, fs := range v.FundingStreams {
		total += int(fs.RateBps)
	}
	if total > MaximumRateBps {
		return fault.ErrInvalidRateBps
	}
	return nil
}

// ValidatorState - lifecycle of a validator
type ValidatorState uint8

// possible states
const (
	Inactive ValidatorState = iota
	Active
	Unbonding
	Slashed
)

// String - canonical name, as persisted
func (s ValidatorState) String() string {
	switch s {
	case Inactive:
		return "INACTIVE"
	case Active:
		return "ACTIVE"
	case Unbonding:
		return "UNBONDING"
	case Slashed:
		return "SLASHED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText - canonical name
func (s ValidatorState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - from canonical name
func (s *ValidatorState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "INACTIVE":
		*s = Inactive
	case "ACTIVE":
		*s = Active
	case "UNBONDING":
		*s = Unbonding
	case "SLASHED":
		*s = Slashed
	default:
		return fault.ErrInvalidValidatorState
	}
	return nil
}

// ValidatorStatus - voting power and state of one validator
type ValidatorStatus struct {
	IdentityKey IdentityKey    `json:"identityKey"`
	VotingPower uint64         `json:"votingPower"`
	State       ValidatorState `json:"state"`
}

// Delegate - move staking tokens into a validator's delegation pool
type Delegate struct {
	ValidatorIdentity IdentityKey `json:"validatorIdentity"`
	EpochIndex        uint64      `json:"epochIndex"`
	UnbondedAmount    uint64      `json:"unbondedAmount"`
	DelegationAmount  uint64      `json:"delegationAmount"`
}

// Undelegate - return delegation tokens from a validator's pool
type Undelegate struct {
	ValidatorIdentity IdentityKey `json:"validatorIdentity"`
	EpochIndex        uint64      `json:"epochIndex"`
	UnbondedAmount    uint64      `json:"unbondedAmount"`
	DelegationAmount  uint64      `json:"delegationAmount"`
}
