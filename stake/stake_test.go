// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stake_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/stake"
)

func TestIdentityKeyText(t *testing.T) {
	ik := stake.IdentityKey{0x01, 0x02, 0x03}

	s := ik.String()
	r, err := stake.IdentityKeyFromBase58(s)
	assert.Nil(t, err)
	assert.Equal(t, ik, r)

	_, err = stake.IdentityKeyFromBase58("3MvykBZzN")
	assert.Equal(t, fault.ErrKeyLength, err)

	_, err = stake.IdentityKeyFromBase58("not;base58")
	assert.Equal(t, fault.ErrKeyLength, err)
}

func TestRateDataByIDJSON(t *testing.T) {
	ik := stake.IdentityKey{0x42}
	rates := stake.RateDataByID{
		ik: stake.InitialRate(ik, 1),
	}

	buffer, err := json.Marshal(rates)
	assert.Nil(t, err)

	r := stake.RateDataByID{}
	assert.Nil(t, json.Unmarshal(buffer, &r))
	assert.Equal(t, rates, r)
	assert.Equal(t, uint64(stake.RateScale), r[ik].ValidatorExchangeRate)
}

func TestRateDataByIDClone(t *testing.T) {
	ik := stake.IdentityKey{0x42}
	rates := stake.RateDataByID{ik: stake.InitialRate(ik, 1)}

	c := rates.Clone()
	delete(c, ik)
	assert.Equal(t, 1, len(rates))
	assert.Nil(t, stake.RateDataByID(nil).Clone())
}

func TestInitialBaseRate(t *testing.T) {
	assert.Equal(t, stake.BaseRateData{EpochIndex: 1, BaseRewardRate: 0, BaseExchangeRate: 100000000}, stake.InitialBaseRate(1))
}

func TestValidatorState(t *testing.T) {
	for _, state := range []stake.ValidatorState{stake.Inactive, stake.Active, stake.Unbonding, stake.Slashed} {
		text, err := state.MarshalText()
		assert.Nil(t, err)

		var r stake.ValidatorState
		assert.Nil(t, r.UnmarshalText(text))
		assert.Equal(t, state, r)
	}
	assert.Equal(t, "ACTIVE", stake.Active.String())

	var r stake.ValidatorState
	assert.Equal(t, fault.ErrInvalidValidatorState, r.UnmarshalText([]byte("RETIRED")))
}

func TestFundingStreamLimit(t *testing.T) {
	v := stake.Validator{
		FundingStreams: []stake.FundingStream{
			{Address: "a", RateBps: 500},
			{Address: "b", RateBps: 9500},
		},
	}
	assert.Nil(t, v.Validate())

	v.FundingStreams = append(v.FundingStreams, stake.FundingStream{Address: "c", RateBps: 1})
	assert.Equal(t, fault.ErrInvalidRateBps, v.Validate())
}
