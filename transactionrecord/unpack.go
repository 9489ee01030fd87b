// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/util"
)

// Unpack - turn a byte slice into a transaction
//
// also returns the number of bytes consumed
func (record Packed) Unpack() (*Transaction, int, error) {
	u := util.NewUnpacker(record)

	tx := &Transaction{}
	body := &tx.Body

	u.Fixed(body.MerkleRoot[:])
	body.ExpiryHeight = u.Uint64()
	body.ChainID = u.String()
	body.Fee = u.Uint64()

	count := u.Uint64()
	if nil != u.Err() {
		return nil, 0, u.Err()
	}
	if count > maxActions {
		return nil, 0, fault.ErrInvalidCount
	}

	body.Actions = make([]Action, 0, count)
	for i := uint64(0); i < count; i += 1 {
		action, err := unpackAction(u)
		if nil != err {
			return nil, 0, err
		}
		body.Actions = append(body.Actions, action)
	}

	tx.BindingSig = u.Bytes()
	if nil != u.Err() {
		return nil, 0, u.Err()
	}
	return tx, u.Offset(), nil
}

func unpackAction(u *util.Unpacker) (Action, error) {
	tag := TagType(u.Uint64())
	if nil != u.Err() {
		return nil, u.Err()
	}

	var action Action

	switch tag {

	case SpendTag:
		a := &Spend{}
		u.Fixed(a.Body.ValueCommitment[:])
		u.Fixed(a.Body.Nullifier[:])
		u.Fixed(a.Body.RandomizedKey[:])
		a.Body.Proof = u.Bytes()
		a.AuthSig = u.Bytes()
		action = a

	case OutputTag:
		a := &Output{}
		u.Fixed(a.Body.ValueCommitment[:])
		u.Fixed(a.Body.NoteCommitment[:])
		u.Fixed(a.Body.EphemeralKey[:])
		u.Fixed(a.Body.EncryptedNote[:])
		a.Body.Proof = u.Bytes()
		action = a

	case DelegateTag:
		a := &Delegate{}
		u.Fixed(a.ValidatorIdentity[:])
		a.EpochIndex = u.Uint64()
		a.UnbondedAmount = u.Uint64()
		a.DelegationAmount = u.Uint64()
		action = a

	case UndelegateTag:
		a := &Undelegate{}
		u.Fixed(a.ValidatorIdentity[:])
		a.EpochIndex = u.Uint64()
		a.UnbondedAmount = u.Uint64()
		a.DelegationAmount = u.Uint64()
		action = a

	case ValidatorDefinitionTag:
		a := &ValidatorDefinition{}
		err := unpackValidator(u, &a.Validator)
		if nil != err {
			return nil, err
		}
		a.AuthSig = u.Bytes()
		action = a

	default:
		return nil, fault.ErrUnknownActionTag
	}

	if nil != u.Err() {
		return nil, u.Err()
	}
	return action, nil
}

func unpackValidator(u *util.Unpacker, v *stake.Validator) error {
	u.Fixed(v.IdentityKey[:])
	u.Fixed(v.ConsensusKey[:])
	v.SequenceNumber = uint32(u.Uint64())
	v.Name = u.String()
	v.Website = u.String()
	v.Description = u.String()

	count := u.Uint64()
	if nil != u.Err() {
		return u.Err()
	}
	if count > maxFundingStreams {
		return fault.ErrInvalidCount
	}
	for i := uint64(0); i < count; i += 1 {
		fs := stake.FundingStream{
			Address: u.String(),
			RateBps: uint16(u.Uint64()),
		}
		v.FundingStreams = append(v.FundingStreams, fs)
	}
	return u.Err()
}
