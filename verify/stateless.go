// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/transactionrecord"
)

// Stateless - check a transaction in isolation and extract its effects
//
// checks the binding signature, then each action in order; the first
// failure rejects the whole transaction
func Stateless(tx *transactionrecord.Transaction, caps Capabilities) (*PendingTransaction, error) {
	sighash, err := tx.Body.Sighash()
	if nil != err {
		return nil, err
	}
	id, err := tx.ID()
	if nil != err {
		return nil, err
	}

	err = caps.VerifyBinding(tx.Body.BalanceCommitment(), sighash, tx.BindingSig)
	if nil != err {
		return nil, fault.ErrBindingSignatureInvalid
	}

	newNotes := make(map[note.Commitment]note.Data)
	nullifiers := mapset.NewThreadUnsafeSet()
	delegations := []stake.Delegate{}
	undelegations := []stake.Undelegate{}

	for _, action := range tx.Body.Actions {
		switch a := action.(type) {

		case *transactionrecord.Output:
			body := &a.Body
			err := caps.VerifyOutputProof(body.Proof, body.ValueCommitment, body.NoteCommitment, body.EphemeralKey)
			if nil != err {
				return nil, fault.ErrOutputProofInvalid
			}
			newNotes[body.NoteCommitment] = note.Data{
				EphemeralKey:  body.EphemeralKey,
				EncryptedNote: body.EncryptedNote,
				TransactionID: id,
			}

		case *transactionrecord.Spend:
			body := &a.Body
			err := caps.VerifySpendAuth(body.RandomizedKey, sighash, a.AuthSig)
			if nil != err {
				return nil, fault.ErrSpendAuthInvalid
			}
			err = caps.VerifySpendProof(body.Proof, tx.Body.MerkleRoot, body.ValueCommitment, body.Nullifier, body.RandomizedKey)
			if nil != err {
				return nil, fault.ErrSpendProofInvalid
			}
			if !nullifiers.Add(body.Nullifier) {
				return nil, fault.ErrDoubleSpendWithinTransaction
			}

		case *transactionrecord.Delegate:
			delegations = append(delegations, a.Delegate)

		case *transactionrecord.Undelegate:
			undelegations = append(undelegations, a.Undelegate)

		default:
			return nil, fault.ErrUnsupportedAction
		}
	}

	return &PendingTransaction{
		ID:              id,
		Root:            tx.Body.MerkleRoot,
		NewNotes:        newNotes,
		SpentNullifiers: nullifiers,
		Delegations:     delegations,
		Undelegations:   undelegations,
		Validators:      []stake.Validator{},
	}, nil
}
