// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset - asset identifiers and supply records
//
// an asset is identified by a hash of its denomination so that every
// node derives the same identifier without a registry lookup
package asset
