// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stake

import (
	"bytes"
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/util"
)

// IdentityKeyLength - bytes in an identity key
const IdentityKeyLength = 32

// IdentityKey - long lived validator identity, Base58 in text form
type IdentityKey [IdentityKeyLength]byte

// ConsensusKey - ed25519 key the validator signs consensus messages with
type ConsensusKey [ed25519.PublicKeySize]byte

// IdentityKeyFromBase58 - decode the text form
func IdentityKeyFromBase58(s string) (IdentityKey, error) {
	ik := IdentityKey{}
	buffer := util.FromBase58(s)
	if IdentityKeyLength != len(buffer) {
		return ik, fault.ErrKeyLength
	}
	copy(ik[:], buffer)
	return ik, nil
}

// Less - byte order
func (ik IdentityKey) Less(other IdentityKey) bool {
	return bytes.Compare(ik[:], other[:]) < 0
}

// String - Base58
func (ik IdentityKey) String() string {
	return util.ToBase58(ik[:])
}

// MarshalText - Base58 text
func (ik IdentityKey) MarshalText() ([]byte, error) {
	return []byte(ik.String()), nil
}

// UnmarshalText - from Base58 text
func (ik *IdentityKey) UnmarshalText(s []byte) error {
	k, err := IdentityKeyFromBase58(string(s))
	if nil != err {
		return err
	}
	*ik = k
	return nil
}

// MarshalText - hex text
func (ck ConsensusKey) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(ck)))
	hex.Encode(buffer, ck[:])
	return buffer, nil
}

// UnmarshalText - from hex text
func (ck *ConsensusKey) UnmarshalText(s []byte) error {
	if len(ck) != hex.DecodedLen(len(s)) {
		return fault.ErrKeyLength
	}
	_, err := hex.Decode(ck[:], s)
	return err
}

