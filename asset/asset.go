// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/shieldd/fault"
)

// IDLength - bytes in an asset identifier
const IDLength = 32

// StakingDenom - denomination of the native staking token
const StakingDenom = "ushield"

// domain separator for identifier derivation
const idDomain = "shieldd.asset.id"

// ID - asset identifier
type ID [IDLength]byte

// Supply - registry entry for an asset
type Supply struct {
	Denom       string `json:"denom"`
	TotalSupply uint64 `json:"totalSupply"`
}

// IDFromDenom - derive the identifier of a denomination
func IDFromDenom(denom string) ID {
	buffer := make([]byte, 0, len(idDomain)+len(denom))
	buffer = append(buffer, idDomain...)
	buffer = append(buffer, denom...)
	return blake2b.Sum256(buffer)
}

// ID - identifier of the supply's denomination
func (s Supply) ID() ID {
	return IDFromDenom(s.Denom)
}

// String - hex
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText - hex text
func (id ID) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(id)))
	hex.Encode(buffer, id[:])
	return buffer, nil
}

// UnmarshalText - from hex text
func (id *ID) UnmarshalText(s []byte) error {
	if IDLength != hex.DecodedLen(len(s)) {
		return fault.ErrKeyLength
	}
	_, err := hex.Decode(id[:], s)
	return err
}
