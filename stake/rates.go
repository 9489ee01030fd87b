// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stake

// RateScale - fixed point 1.0
const RateScale = 1_0000_0000

// RateData - reward and exchange rate of one validator for an epoch
type RateData struct {
	IdentityKey           IdentityKey `json:"identityKey"`
	EpochIndex            uint64      `json:"epochIndex"`
	ValidatorRewardRate   uint64      `json:"validatorRewardRate"`
	ValidatorExchangeRate uint64      `json:"validatorExchangeRate"`
}

// BaseRateData - chain wide reward and exchange rate for an epoch
type BaseRateData struct {
	EpochIndex       uint64 `json:"epochIndex"`
	BaseRewardRate   uint64 `json:"baseRewardRate"`
	BaseExchangeRate uint64 `json:"baseExchangeRate"`
}

// RateDataByID - rates keyed by validator
type RateDataByID map[IdentityKey]RateData

// InitialBaseRate - rates in force before any reward has accrued
func InitialBaseRate(epoch uint64) BaseRateData {
	return BaseRateData{
		EpochIndex:       epoch,
		BaseRewardRate:   0,
		BaseExchangeRate: RateScale,
	}
}

// InitialRate - a validator's rates before any reward has accrued
func InitialRate(identity IdentityKey, epoch uint64) RateData {
	return RateData{
		IdentityKey:           identity,
		EpochIndex:            epoch,
		ValidatorRewardRate:   0,
		ValidatorExchangeRate: RateScale,
	}
}

// Clone - independent copy
func (r RateDataByID) Clone() RateDataByID {
	if nil == r {
		return nil
	}
	c := make(RateDataByID, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
