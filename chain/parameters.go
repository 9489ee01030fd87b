// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/bitmark-inc/shieldd/fault"
)

// Parameters - chain parameters, fixed at genesis
type Parameters struct {
	ChainID              string `json:"chainId"`
	EpochDuration        uint64 `json:"epochDuration"`
	UnbondingEpochs      uint64 `json:"unbondingEpochs"`
	ActiveValidatorLimit uint64 `json:"activeValidatorLimit"`
	SlashingPenaltyBps   uint64 `json:"slashingPenaltyBps"`
}

// Validate - check the parameters are usable
func (p *Parameters) Validate() error {
	if "" == p.ChainID {
		return fault.ErrInvalidChainID
	}
	if 0 == p.EpochDuration {
		return fault.ErrInvalidEpochDuration
	}
	return nil
}

