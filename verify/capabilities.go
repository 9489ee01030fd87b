// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/transactionrecord"
)

// Capabilities - the cryptographic checks a transaction depends on
type Capabilities interface {
	VerifyBinding(balance transactionrecord.BalanceCommitment, sighash transactionrecord.Sighash, signature transactionrecord.Signature) error
	VerifySpendAuth(key transactionrecord.RandomizedKey, sighash transactionrecord.Sighash, signature transactionrecord.Signature) error
	VerifySpendProof(proof []byte, root merkle.Digest, valueCommitment transactionrecord.ValueCommitment, nullifier note.Nullifier, key transactionrecord.RandomizedKey) error
	VerifyOutputProof(proof []byte, valueCommitment transactionrecord.ValueCommitment, noteCommitment note.Commitment, ephemeralKey note.EphemeralKey) error
}

// domain separators for the transparent scheme
const (
	bindingDomain = "shieldd.transparent.binding"
	spendDomain   = "shieldd.transparent.spend"
	outputDomain  = "shieldd.transparent.output"
)

// Transparent - capabilities for local and test chains
//
// spend authorisation is a real ed25519 signature; binding signatures
// and proofs are BLAKE2b bindings of their public inputs and carry no
// zero knowledge
type Transparent struct{}

// check interface
var _ Capabilities = Transparent{}

// VerifyBinding - binding signature over balance and sighash
func (Transparent) VerifyBinding(balance transactionrecord.BalanceCommitment, sighash transactionrecord.Sighash, signature transactionrecord.Signature) error {
	if !equal(SignBinding(balance, sighash), signature) {
		return fault.ErrBindingSignatureInvalid
	}
	return nil
}

// VerifySpendAuth - ed25519 signature by the randomized key over the sighash
func (Transparent) VerifySpendAuth(key transactionrecord.RandomizedKey, sighash transactionrecord.Sighash, signature transactionrecord.Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.ErrWrongSignatureLength
	}
	if !ed25519.Verify(ed25519.PublicKey(key[:]), sighash[:], signature) {
		return fault.ErrSpendAuthInvalid
	}
	return nil
}

// VerifySpendProof - proof binds root, value commitment, nullifier and key
func (Transparent) VerifySpendProof(proof []byte, root merkle.Digest, valueCommitment transactionrecord.ValueCommitment, nullifier note.Nullifier, key transactionrecord.RandomizedKey) error {
	if !equal(ProveSpend(root, valueCommitment, nullifier, key), proof) {
		return fault.ErrSpendProofInvalid
	}
	return nil
}

// VerifyOutputProof - proof binds value commitment, note commitment and ephemeral key
func (Transparent) VerifyOutputProof(proof []byte, valueCommitment transactionrecord.ValueCommitment, noteCommitment note.Commitment, ephemeralKey note.EphemeralKey) error {
	if !equal(ProveOutput(valueCommitment, noteCommitment, ephemeralKey), proof) {
		return fault.ErrOutputProofInvalid
	}
	return nil
}

// SignBinding - produce a transparent binding signature
func SignBinding(balance transactionrecord.BalanceCommitment, sighash transactionrecord.Sighash) transactionrecord.Signature {
	return bind(bindingDomain, balance[:], sighash[:])
}

// SignSpendAuth - sign the sighash with the spend authorisation key
func SignSpendAuth(privateKey ed25519.PrivateKey, sighash transactionrecord.Sighash) transactionrecord.Signature {
	return ed25519.Sign(privateKey, sighash[:])
}

// ProveSpend - produce a transparent spend proof
func ProveSpend(root merkle.Digest, valueCommitment transactionrecord.ValueCommitment, nullifier note.Nullifier, key transactionrecord.RandomizedKey) []byte {
	return bind(spendDomain, root[:], valueCommitment[:], nullifier[:], key[:])
}

// ProveOutput - produce a transparent output proof
func ProveOutput(valueCommitment transactionrecord.ValueCommitment, noteCommitment note.Commitment, ephemeralKey note.EphemeralKey) []byte {
	return bind(outputDomain, valueCommitment[:], noteCommitment[:], ephemeralKey[:])
}

func bind(domain string, items ...[]byte) []byte {
	h, _ := blake2b.New256(nil) // cannot fail without a key
	h.Write([]byte(domain))
	for _, item := range items {
		h.Write(item)
	}
	return h.Sum(nil)
}

func equal(a []byte, b []byte) bool {
	return len(a) == len(b) && 1 == subtle.ConstantTimeCompare(a, b)
}
