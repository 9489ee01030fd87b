// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

// Epoch - a fixed window of blocks with constant staking rates
type Epoch struct {
	Index    uint64 `json:"index"`
	Duration uint64 `json:"duration"`
}

// EpochForHeight - the epoch containing a block height
//
// duration must be non-zero
func EpochForHeight(height uint64, duration uint64) Epoch {
	return Epoch{
		Index:    height / duration,
		Duration: duration,
	}
}

// StartHeight - first block of the epoch
func (e Epoch) StartHeight() uint64 {
	return e.Index * e.Duration
}

// EndHeight - last block of the epoch
func (e Epoch) EndHeight() uint64 {
	return e.StartHeight() + e.Duration - 1
}

// IsLastBlock - true if height is the final block of the epoch
func (e Epoch) IsLastBlock(height uint64) bool {
	return height == e.EndHeight()
}
