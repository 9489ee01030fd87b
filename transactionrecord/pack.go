// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"unicode/utf8"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/util"
)

// Pack - pack a complete transaction
//
// the packed body (with authorisation signatures) followed by the
// binding signature
func (tx *Transaction) Pack() (Packed, error) {
	if len(tx.BindingSig) > maxSignatureLength {
		return nil, fault.ErrWrongSignatureLength
	}
	message, err := tx.Body.pack(true)
	if nil != err {
		return nil, err
	}
	return util.AppendBytes(message, tx.BindingSig), nil
}

// pack a body
//
// Pack fields in order as struct above, then Varint64(count) and each
// action as Varint64(tag) followed by its fields. Authorisation
// signatures are omitted when producing the signing message.
func (body *Body) pack(withAuth bool) (Packed, error) {
	if len(body.Actions) > maxActions {
		return nil, fault.ErrInvalidCount
	}
	if len(body.ChainID) > maxChainIDLength {
		return nil, fault.ErrInvalidChainID
	}

	message := util.AppendBytes(nil, body.MerkleRoot[:])
	message = util.AppendUint64(message, body.ExpiryHeight)
	message = util.AppendString(message, body.ChainID)
	message = util.AppendUint64(message, body.Fee)
	message = util.AppendUint64(message, uint64(len(body.Actions)))

	for _, action := range body.Actions {
		if nil == action {
			return nil, fault.ErrUnknownActionTag
		}
		message = util.AppendUint64(message, uint64(action.Tag()))

		switch a := action.(type) {

		case *Spend:
			if len(a.Body.Proof) > maxProofLength {
				return nil, fault.ErrTruncatedRecord
			}
			message = util.AppendBytes(message, a.Body.ValueCommitment[:])
			message = util.AppendBytes(message, a.Body.Nullifier[:])
			message = util.AppendBytes(message, a.Body.RandomizedKey[:])
			message = util.AppendBytes(message, a.Body.Proof)
			if withAuth {
				if len(a.AuthSig) > maxSignatureLength {
					return nil, fault.ErrWrongSignatureLength
				}
				message = util.AppendBytes(message, a.AuthSig)
			}

		case *Output:
			if len(a.Body.Proof) > maxProofLength {
				return nil, fault.ErrTruncatedRecord
			}
			message = util.AppendBytes(message, a.Body.ValueCommitment[:])
			message = util.AppendBytes(message, a.Body.NoteCommitment[:])
			message = util.AppendBytes(message, a.Body.EphemeralKey[:])
			message = util.AppendBytes(message, a.Body.EncryptedNote[:])
			message = util.AppendBytes(message, a.Body.Proof)

		case *Delegate:
			message = appendDelegation(message, a.ValidatorIdentity, a.EpochIndex, a.UnbondedAmount, a.DelegationAmount)

		case *Undelegate:
			message = appendDelegation(message, a.ValidatorIdentity, a.EpochIndex, a.UnbondedAmount, a.DelegationAmount)

		case *ValidatorDefinition:
			m, err := appendValidator(message, &a.Validator)
			if nil != err {
				return nil, err
			}
			message = m
			if withAuth {
				if len(a.AuthSig) > maxSignatureLength {
					return nil, fault.ErrWrongSignatureLength
				}
				message = util.AppendBytes(message, a.AuthSig)
			}

		default:
			return nil, fault.ErrUnknownActionTag
		}
	}
	return message, nil
}

func appendDelegation(message []byte, identity stake.IdentityKey, epoch uint64, unbonded uint64, delegation uint64) []byte {
	message = util.AppendBytes(message, identity[:])
	message = util.AppendUint64(message, epoch)
	message = util.AppendUint64(message, unbonded)
	return util.AppendUint64(message, delegation)
}

func appendValidator(message []byte, v *stake.Validator) ([]byte, error) {
	if utf8.RuneCountInString(v.Name) > maxNameLength {
		return nil, fault.ErrInvalidCount
	}
	if len(v.Website) > maxTextLength || len(v.Description) > maxTextLength {
		return nil, fault.ErrInvalidCount
	}
	if len(v.FundingStreams) > maxFundingStreams {
		return nil, fault.ErrInvalidCount
	}

	message = util.AppendBytes(message, v.IdentityKey[:])
	message = util.AppendBytes(message, v.ConsensusKey[:])
	message = util.AppendUint64(message, uint64(v.SequenceNumber))
	message = util.AppendString(message, v.Name)
	message = util.AppendString(message, v.Website)
	message = util.AppendString(message, v.Description)
	message = util.AppendUint64(message, uint64(len(v.FundingStreams)))
	for _, fs := range v.FundingStreams {
		message = util.AppendString(message, fs.Address)
		message = util.AppendUint64(message, uint64(fs.RateBps))
	}
	return message, nil
}
