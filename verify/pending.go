// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"context"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
)

// PendingTransaction - effects of a transaction that passed stateless checks
//
// SpentNullifiers holds note.Nullifier values and never a duplicate
type PendingTransaction struct {
	ID              merkle.Digest
	Root            merkle.Digest
	NewNotes        map[note.Commitment]note.Data
	SpentNullifiers mapset.Set
	Delegations     []stake.Delegate
	Undelegations   []stake.Undelegate
	Validators      []stake.Validator
}

// VerifiedTransaction - effects of a transaction that passed stateful checks
//
// delegations are collapsed to a net delegation pool change per validator
type VerifiedTransaction struct {
	ID                merkle.Digest
	NewNotes          map[note.Commitment]note.Data
	SpentNullifiers   mapset.Set
	DelegationChanges map[stake.IdentityKey]int64
}

// Chain - read only view of committed chain state
type Chain interface {
	Height() (uint64, error)
	RecentAnchors(count int) ([]merkle.Digest, error)
	NullifierHeight(nullifier note.Nullifier) (uint64, bool, error)
	NextRateData() (stake.RateDataByID, error)
}

// Stateful - checks a pending transaction against chain state
type Stateful interface {
	VerifyStateful(ctx context.Context, pending *PendingTransaction, chain Chain) (*VerifiedTransaction, error)
}

// NewVerifiedTransaction - the verified form of a pending transaction
//
// for use by a stateful verifier once all of its checks have passed
func NewVerifiedTransaction(pending *PendingTransaction) *VerifiedTransaction {
	return &VerifiedTransaction{
		ID:                pending.ID,
		NewNotes:          pending.NewNotes,
		SpentNullifiers:   pending.SpentNullifiers,
		DelegationChanges: pending.DelegationChanges(),
	}
}

// DelegationChanges - net change of each validator's delegation pool
func (pending *PendingTransaction) DelegationChanges() map[stake.IdentityKey]int64 {
	changes := make(map[stake.IdentityKey]int64)
	for _, d := range pending.Delegations {
		changes[d.ValidatorIdentity] += int64(d.DelegationAmount)
	}
	for _, u := range pending.Undelegations {
		changes[u.ValidatorIdentity] -= int64(u.DelegationAmount)
	}
	return changes
}

// Nullifiers - spent nullifiers in byte order
func (pending *PendingTransaction) Nullifiers() []note.Nullifier {
	return sortedNullifiers(pending.SpentNullifiers)
}

// Nullifiers - spent nullifiers in byte order
func (verified *VerifiedTransaction) Nullifiers() []note.Nullifier {
	return sortedNullifiers(verified.SpentNullifiers)
}

// Commitments - new note commitments in byte order
func (verified *VerifiedTransaction) Commitments() []note.Commitment {
	commitments := make([]note.Commitment, 0, len(verified.NewNotes))
	for cm := range verified.NewNotes {
		commitments = append(commitments, cm)
	}
	sort.Slice(commitments, func(i, j int) bool {
		return commitments[i].Less(commitments[j])
	})
	return commitments
}

func sortedNullifiers(set mapset.Set) []note.Nullifier {
	if nil == set {
		return nil
	}
	nullifiers := make([]note.Nullifier, 0, set.Cardinality())
	for _, item := range set.ToSlice() {
		nullifiers = append(nullifiers, item.(note.Nullifier))
	}
	sort.Slice(nullifiers, func(i, j int) bool {
		return nullifiers[i].Less(nullifiers[j])
	})
	return nullifiers
}
