// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package state - committed chain state
//
// The Writer is the only path that modifies the store. Each genesis or
// block commit is a single storage transaction: either every table,
// the note commitment tree blob and the authenticated tree version are
// written together or nothing is.
//
// The Reader serves committed data only. The Publisher holds the last
// published value of the chain parameters, height, next rate data and
// recent anchors, and is updated strictly after a commit succeeds.
package state
