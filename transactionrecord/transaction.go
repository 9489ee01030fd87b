// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/hex"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
)

// TagType - type code for actions
type TagType uint64

// enumerate the possible action types
// this is encoded a Varint64 at start of each packed action
const (
	// null marks beginning of list - not used as an action type
	NullTag = TagType(iota)

	// valid action types
	SpendTag               = TagType(iota) // reveal a nullifier
	OutputTag              = TagType(iota) // create a note
	DelegateTag            = TagType(iota) // stake into a validator pool
	UndelegateTag          = TagType(iota) // leave a validator pool
	ValidatorDefinitionTag = TagType(iota) // upload a validator definition

	// this item must be last
	InvalidTag = TagType(iota)
)

// Packed - packed records are just a byte slice
type Packed []byte

// byte sizes for various fields
const (
	ValueCommitmentLength = 32
	RandomizedKeyLength   = 32

	maxActions         = 1024
	maxChainIDLength   = 64
	maxNameLength      = 64
	maxTextLength      = 2048
	maxProofLength     = 8192
	maxSignatureLength = 1024
	maxFundingStreams  = 32
)

// Signature - a binding or authorisation signature
type Signature []byte

// ValueCommitment - commitment to the value moved by an action
type ValueCommitment [ValueCommitmentLength]byte

// RandomizedKey - per spend re-randomised spend authorisation key
type RandomizedKey [RandomizedKeyLength]byte

// Action - one element of a transaction body
type Action interface {
	Tag() TagType
}

// SpendBody - the signed part of a spend
type SpendBody struct {
	ValueCommitment ValueCommitment `json:"valueCommitment"`
	Nullifier       note.Nullifier  `json:"nullifier"`
	RandomizedKey   RandomizedKey   `json:"randomizedKey"`
	Proof           []byte          `json:"proof"`
}

// Spend - consume an existing note
type Spend struct {
	Body    SpendBody `json:"body"`
	AuthSig Signature `json:"authSig"`
}

// OutputBody - the signed part of an output
type OutputBody struct {
	ValueCommitment ValueCommitment   `json:"valueCommitment"`
	NoteCommitment  note.Commitment   `json:"noteCommitment"`
	EphemeralKey    note.EphemeralKey `json:"ephemeralKey"`
	EncryptedNote   note.Ciphertext   `json:"encryptedNote"`
	Proof           []byte            `json:"proof"`
}

// Output - create a new note
type Output struct {
	Body OutputBody `json:"body"`
}

// Delegate - delegation action
type Delegate struct {
	stake.Delegate
}

// Undelegate - undelegation action
type Undelegate struct {
	stake.Undelegate
}

// ValidatorDefinition - a signed validator definition
type ValidatorDefinition struct {
	Validator stake.Validator `json:"validator"`
	AuthSig   Signature       `json:"authSig"`
}

// Body - everything covered by the binding signature
type Body struct {
	Actions      []Action      `json:"actions"`
	MerkleRoot   merkle.Digest `json:"merkleRoot"`
	ExpiryHeight uint64        `json:"expiryHeight"`
	ChainID      string        `json:"chainId"`
	Fee          uint64        `json:"fee"`
}

// Transaction - a body with its binding signature
type Transaction struct {
	Body       Body      `json:"body"`
	BindingSig Signature `json:"bindingSig"`
}

// Tag - action type
func (*Spend) Tag() TagType { return SpendTag }

// Tag - action type
func (*Output) Tag() TagType { return OutputTag }

// Tag - action type
func (*Delegate) Tag() TagType { return DelegateTag }

// Tag - action type
func (*Undelegate) Tag() TagType { return UndelegateTag }

// Tag - action type
func (*ValidatorDefinition) Tag() TagType { return ValidatorDefinitionTag }

// MarshalText - hex text
func (signature Signature) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(signature)))
	hex.Encode(buffer, signature)
	return buffer, nil
}

// UnmarshalText - from hex text
func (signature *Signature) UnmarshalText(s []byte) error {
	sig := make([]byte, hex.DecodedLen(len(s)))
	_, err := hex.Decode(sig, s)
	if nil != err {
		return err
	}
	*signature = sig
	return nil
}

// MarshalText - hex text
func (vc ValueCommitment) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(vc)))
	hex.Encode(buffer, vc[:])
	return buffer, nil
}

// UnmarshalText - from hex text
func (vc *ValueCommitment) UnmarshalText(s []byte) error {
	if ValueCommitmentLength != hex.DecodedLen(len(s)) {
		return fault.ErrKeyLength
	}
	_, err := hex.Decode(vc[:], s)
	return err
}

// MarshalText - hex text
func (rk RandomizedKey) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(rk)))
	hex.Encode(buffer, rk[:])
	return buffer, nil
}

// UnmarshalText - from hex text
func (rk *RandomizedKey) UnmarshalText(s []byte) error {
	if RandomizedKeyLength != hex.DecodedLen(len(s)) {
		return fault.ErrKeyLength
	}
	_, err := hex.Decode(rk[:], s)
	return err
}
