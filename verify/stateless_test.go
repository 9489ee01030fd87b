// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/transactionrecord"
	"github.com/bitmark-inc/shieldd/verify"
	"github.com/bitmark-inc/shieldd/verify/mocks"
)

var testRoot = merkle.NewDigest([]byte("anchor"))

func TestStatelessValid(t *testing.T) {
	delegate := stake.Delegate{ValidatorIdentity: stake.IdentityKey{0x01}, EpochIndex: 1, UnbondedAmount: 100, DelegationAmount: 100}
	undelegate := stake.Undelegate{ValidatorIdentity: stake.IdentityKey{0x02}, EpochIndex: 1, UnbondedAmount: 30, DelegationAmount: 25}

	tx := makeTransaction(testRoot,
		spendAction(testRoot, spendInput{seed: 1, nullifier: note.Nullifier{0x11}}),
		outputAction(note.Commitment{0x21}),
		spendAction(testRoot, spendInput{seed: 2, nullifier: note.Nullifier{0x12}}),
		outputAction(note.Commitment{0x22}),
		&transactionrecord.Delegate{Delegate: delegate},
		&transactionrecord.Undelegate{Undelegate: undelegate},
	)

	pending, err := verify.Stateless(tx, verify.Transparent{})
	assert.Nil(t, err, "stateless")

	id, err := tx.ID()
	assert.Nil(t, err)
	assert.Equal(t, id, pending.ID, "id")
	assert.Equal(t, testRoot, pending.Root, "root")

	assert.Equal(t, 2, len(pending.NewNotes), "notes")
	for _, cm := range []note.Commitment{{0x21}, {0x22}} {
		data, ok := pending.NewNotes[cm]
		assert.True(t, ok, "missing note: %s", cm)
		assert.Equal(t, id, data.TransactionID)
		assert.Equal(t, note.EphemeralKey{cm[0], 0x77}, data.EphemeralKey)
	}

	assert.Equal(t, []note.Nullifier{{0x11}, {0x12}}, pending.Nullifiers(), "nullifiers")
	assert.Equal(t, []stake.Delegate{delegate}, pending.Delegations)
	assert.Equal(t, []stake.Undelegate{undelegate}, pending.Undelegations)
	assert.Equal(t, 0, len(pending.Validators))
}

func TestStatelessTamperedBinding(t *testing.T) {
	tx := makeTransaction(testRoot,
		spendAction(testRoot, spendInput{seed: 1, nullifier: note.Nullifier{0x11}}),
		outputAction(note.Commitment{0x21}),
	)

	for i := range tx.BindingSig {
		tampered := *tx
		tampered.BindingSig = append(transactionrecord.Signature{}, tx.BindingSig...)
		tampered.BindingSig[i] ^= 0x01

		pending, err := verify.Stateless(&tampered, verify.Transparent{})
		assert.Equal(t, fault.ErrBindingSignatureInvalid, err, "byte: %d", i)
		assert.Nil(t, pending)
	}

	// changing the body after signing breaks the binding signature
	tx.Body.Fee += 1
	_, err := verify.Stateless(tx, verify.Transparent{})
	assert.Equal(t, fault.ErrBindingSignatureInvalid, err)
}

func TestStatelessDoubleSpend(t *testing.T) {
	nf := note.Nullifier{0x33}
	tx := makeTransaction(testRoot,
		spendAction(testRoot, spendInput{seed: 1, nullifier: nf}),
		outputAction(note.Commitment{0x21}),
		spendAction(testRoot, spendInput{seed: 2, nullifier: nf}),
	)

	pending, err := verify.Stateless(tx, verify.Transparent{})
	assert.Equal(t, fault.ErrDoubleSpendWithinTransaction, err)
	assert.Nil(t, pending)
}

func TestStatelessSpendAuth(t *testing.T) {
	tx := makeTransaction(testRoot,
		spendAction(testRoot, spendInput{seed: 1, nullifier: note.Nullifier{0x11}}),
	)

	// signature by a different key
	sighash, err := tx.Body.Sighash()
	assert.Nil(t, err)
	tx.Body.Actions[0].(*transactionrecord.Spend).AuthSig = verify.SignSpendAuth(spendKey(9), sighash)

	_, err = verify.Stateless(tx, verify.Transparent{})
	assert.Equal(t, fault.ErrSpendAuthInvalid, err)
}

func TestStatelessSpendProof(t *testing.T) {
	// proof made against a different root than the transaction declares
	other := merkle.NewDigest([]byte("other anchor"))
	tx := makeTransaction(testRoot,
		spendAction(other, spendInput{seed: 1, nullifier: note.Nullifier{0x11}}),
	)

	_, err := verify.Stateless(tx, verify.Transparent{})
	assert.Equal(t, fault.ErrSpendProofInvalid, err)
	assert.True(t, fault.IsErrProof(err))
}

func TestStatelessOutputProof(t *testing.T) {
	output := outputAction(note.Commitment{0x21})
	output.Body.Proof[0] ^= 0xff
	tx := makeTransaction(testRoot, output)

	_, err := verify.Stateless(tx, verify.Transparent{})
	assert.Equal(t, fault.ErrOutputProofInvalid, err)
	assert.True(t, fault.IsErrProof(err))
}

func TestStatelessUnsupportedAction(t *testing.T) {
	tx := makeTransaction(testRoot,
		outputAction(note.Commitment{0x21}),
		&transactionrecord.ValidatorDefinition{
			Validator: stake.Validator{IdentityKey: stake.IdentityKey{0x01}, Name: "v"},
			AuthSig:   transactionrecord.Signature("sig"),
		},
	)

	pending, err := verify.Stateless(tx, verify.Transparent{})
	assert.Equal(t, fault.ErrUnsupportedAction, err)
	assert.Nil(t, pending)
}

func TestStatelessRepeatedCommitment(t *testing.T) {
	cm := note.Commitment{0x21}
	first := outputAction(cm)
	second := outputAction(cm)
	second.Body.EncryptedNote[1] = 0x99

	tx := makeTransaction(testRoot, first, second)

	pending, err := verify.Stateless(tx, verify.Transparent{})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(pending.NewNotes))
	assert.Equal(t, byte(0x99), pending.NewNotes[cm].EncryptedNote[1], "later output wins")
}

func TestStatelessCheckOrder(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockCapabilities(ctl)

	tx := makeTransaction(testRoot,
		outputAction(note.Commitment{0x21}),
		spendAction(testRoot, spendInput{seed: 1, nullifier: note.Nullifier{0x11}}),
		spendAction(testRoot, spendInput{seed: 2, nullifier: note.Nullifier{0x12}}),
	)
	sighash, err := tx.Body.Sighash()
	assert.Nil(t, err)

	gomock.InOrder(
		m.EXPECT().VerifyBinding(tx.Body.BalanceCommitment(), sighash, tx.BindingSig).Return(nil).Times(1),
		m.EXPECT().VerifyOutputProof(gomock.Any(), gomock.Any(), note.Commitment{0x21}, gomock.Any()).Return(nil).Times(1),
		m.EXPECT().VerifySpendAuth(randomizedKey(1), sighash, gomock.Any()).Return(nil).Times(1),
		m.EXPECT().VerifySpendProof(gomock.Any(), testRoot, gomock.Any(), note.Nullifier{0x11}, randomizedKey(1)).Return(nil).Times(1),
		m.EXPECT().VerifySpendAuth(randomizedKey(2), sighash, gomock.Any()).Return(fault.ErrSpendAuthInvalid).Times(1),
	)

	// the second spend proof is never checked
	m.EXPECT().VerifySpendProof(gomock.Any(), gomock.Any(), gomock.Any(), note.Nullifier{0x12}, gomock.Any()).Times(0)

	_, err = verify.Stateless(tx, m)
	assert.Equal(t, fault.ErrSpendAuthInvalid, err)
}

func TestStatelessBindingFirst(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockCapabilities(ctl)
	m.EXPECT().VerifyBinding(gomock.Any(), gomock.Any(), gomock.Any()).Return(fault.ErrBindingSignatureInvalid).Times(1)

	tx := makeTransaction(testRoot, outputAction(note.Commitment{0x21}))

	_, err := verify.Stateless(tx, m)
	assert.Equal(t, fault.ErrBindingSignatureInvalid, err)
}
