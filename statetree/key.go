// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package statetree

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"
)

// Key - a namespace in the authenticated state
type Key uint8

// enumerate the keys
const (
	NoteCommitmentAnchor Key = iota
)

// domain prefix for key hashing
const keyDomain = "shieldd.statetree."

// String - the key's name, which is also its hash preimage
func (k Key) String() string {
	switch k {
	case NoteCommitmentAnchor:
		return "nct_anchor"
	default:
		return "unknown"
	}
}

// Hash - domain separated key as stored in the tree
func (k Key) Hash() common.Hash {
	return blake2b.Sum256([]byte(keyDomain + k.String()))
}
