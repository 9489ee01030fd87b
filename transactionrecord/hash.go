// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/shieldd/merkle"
)

// domain separators
const (
	sighashDomain = "shieldd.transaction.sighash"
	balanceDomain = "shieldd.transaction.balance"
)

// Sighash - the message signed by binding and authorisation signatures
type Sighash [blake2b.Size256]byte

// BalanceCommitment - aggregate of every action's value commitment and the fee
type BalanceCommitment [blake2b.Size256]byte

// ID - transaction identifier, SHA3-256 of the packed record
func (record Packed) ID() merkle.Digest {
	return merkle.NewDigest(record)
}

// ID - pack and compute the identifier
func (tx *Transaction) ID() (merkle.Digest, error) {
	packed, err := tx.Pack()
	if nil != err {
		return merkle.Digest{}, err
	}
	return packed.ID(), nil
}

// Sighash - BLAKE2b-256 over the domain and the body packed without
// authorisation signatures
func (body *Body) Sighash() (Sighash, error) {
	message, err := body.pack(false)
	if nil != err {
		return Sighash{}, err
	}
	buffer := make([]byte, 0, len(sighashDomain)+len(message))
	buffer = append(buffer, sighashDomain...)
	buffer = append(buffer, message...)
	return blake2b.Sum256(buffer), nil
}

// BalanceCommitment - combine the value commitments in action order
//
// spends contribute positively, outputs negatively; delegations carry
// their amounts in clear so they are bound by value
func (body *Body) BalanceCommitment() BalanceCommitment {
	h, _ := blake2b.New256(nil) // cannot fail without a key
	h.Write([]byte(balanceDomain))

	n := make([]byte, 8)
	for _, action := range body.Actions {
		switch a := action.(type) {
		case *Spend:
			h.Write([]byte{'+'})
			h.Write(a.Body.ValueCommitment[:])
		case *Output:
			h.Write([]byte{'-'})
			h.Write(a.Body.ValueCommitment[:])
		case *Delegate:
			h.Write([]byte{'d'})
			h.Write(a.ValidatorIdentity[:])
			binary.BigEndian.PutUint64(n, a.UnbondedAmount)
			h.Write(n)
			binary.BigEndian.PutUint64(n, a.DelegationAmount)
			h.Write(n)
		case *Undelegate:
			h.Write([]byte{'u'})
			h.Write(a.ValidatorIdentity[:])
			binary.BigEndian.PutUint64(n, a.UnbondedAmount)
			h.Write(n)
			binary.BigEndian.PutUint64(n, a.DelegationAmount)
			h.Write(n)
		}
	}
	binary.BigEndian.PutUint64(n, body.Fee)
	h.Write(n)

	bc := BalanceCommitment{}
	copy(bc[:], h.Sum(nil))
	return bc
}

// String - hex
func (s Sighash) String() string {
	return hex.EncodeToString(s[:])
}
