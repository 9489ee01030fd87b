// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
)

// blob keys
var (
	genesisConfigKey      = []byte("gc")
	noteCommitmentTreeKey = []byte("nct")
)

// BlockRecord - one committed block
type BlockRecord struct {
	Height    uint64
	NCTAnchor merkle.Digest
	AppHash   common.Hash
}

// NoteRecord - a committed note
type NoteRecord struct {
	Commitment note.Commitment
	Note       note.PositionedData
	Height     uint64
}

// ValidatorRecord - a validator with its current voting power and state
type ValidatorRecord struct {
	Validator      stake.Validator
	VotingPower    uint64
	State          stake.ValidatorState
	UnbondingEpoch uint64
}

// stored forms, keys are outside the record
type blockValue struct {
	NCTAnchor merkle.Digest
	AppHash   common.Hash
}

type noteValue struct {
	EphemeralKey  note.EphemeralKey
	EncryptedNote note.Ciphertext
	TransactionID merkle.Digest
	Position      uint64
	Height        uint64
}

type validatorValue struct {
	ConsensusKey   stake.ConsensusKey
	SequenceNumber uint32
	Name           string
	Website        string
	Description    string
	VotingPower    uint64
	State          uint8
	UnbondingEpoch uint64
}

type fundingStreamValue struct {
	Address string
	RateBps uint16
}

type rateValue struct {
	RewardRate   uint64
	ExchangeRate uint64
}

type assetValue struct {
	Denom       string
	TotalSupply uint64
}

func heightKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

// epoch first so one epoch's rows are a contiguous range
func epochIdentityKey(epoch uint64, identity stake.IdentityKey) []byte {
	return append(heightKey(epoch), identity[:]...)
}

func fundingStreamKey(identity stake.IdentityKey, index int) []byte {
	key := make([]byte, len(identity)+2)
	copy(key, identity[:])
	binary.BigEndian.PutUint16(key[len(identity):], uint16(index))
	return key
}

// split an epoch+identity key
func splitEpochIdentityKey(key []byte) (uint64, stake.IdentityKey, error) {
	identity := stake.IdentityKey{}
	if 8+len(identity) != len(key) {
		return 0, identity, fault.ErrKeyLength
	}
	copy(identity[:], key[8:])
	return binary.BigEndian.Uint64(key[:8]), identity, nil
}

// delegation deltas are stored as two's complement
func packDelta(delta int64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, uint64(delta))
	return buffer
}

func unpackDelta(buffer []byte) (int64, error) {
	if 8 != len(buffer) {
		return 0, fault.ErrTruncatedRecord
	}
	return int64(binary.BigEndian.Uint64(buffer)), nil
}

func packValidator(v *stake.Validator, votingPower uint64, state stake.ValidatorState, unbondingEpoch uint64) ([]byte, error) {
	return rlp.EncodeToBytes(validatorValue{
		ConsensusKey:   v.ConsensusKey,
		SequenceNumber: v.SequenceNumber,
		Name:           v.Name,
		Website:        v.Website,
		Description:    v.Description,
		VotingPower:    votingPower,
		State:          uint8(state),
		UnbondingEpoch: unbondingEpoch,
	})
}

func unpackValidator(identity stake.IdentityKey, buffer []byte) (*ValidatorRecord, error) {
	v := validatorValue{}
	err := rlp.DecodeBytes(buffer, &v)
	if nil != err {
		return nil, err
	}
	return &ValidatorRecord{
		Validator: stake.Validator{
			IdentityKey:    identity,
			ConsensusKey:   v.ConsensusKey,
			SequenceNumber: v.SequenceNumber,
			Name:           v.Name,
			Website:        v.Website,
			Description:    v.Description,
		},
		VotingPower:    v.VotingPower,
		State:          stake.ValidatorState(v.State),
		UnbondingEpoch: v.UnbondingEpoch,
	}, nil
}

func packRate(reward uint64, exchange uint64) ([]byte, error) {
	return rlp.EncodeToBytes(rateValue{
		RewardRate:   reward,
		ExchangeRate: exchange,
	})
}

func unpackRate(buffer []byte) (rateValue, error) {
	r := rateValue{}
	err := rlp.DecodeBytes(buffer, &r)
	return r, err
}
