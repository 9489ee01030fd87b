// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package stake - validators, delegation actions and the per-epoch
// reward and exchange rates
//
// all rates are integers scaled by RateScale so that RateScale
// represents exactly 1.0
package stake
