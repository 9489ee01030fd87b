// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/bitmark-inc/shieldd/asset"
	"github.com/bitmark-inc/shieldd/chain"
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/verify"
)

// PendingBlock - effects of a block, built up before commit
//
// consumed exactly once by Writer.CommitBlock
type PendingBlock struct {
	Height             uint64
	Epoch              chain.Epoch
	NoteCommitmentTree *merkle.Tree
	Notes              map[note.Commitment]note.PositionedData
	SpentNullifiers    mapset.Set
	DelegationChanges  map[stake.IdentityKey]int64

	// set at the end of an epoch
	NextBaseRate          *stake.BaseRateData
	NextRates             []stake.RateData
	NextValidatorStatuses []stake.ValidatorStatus

	SupplyUpdates map[asset.ID]asset.Supply

	heightSet bool
}

// NewPendingBlock - start a block on a copy of the committed tree
//
// a nil tree starts from empty
func NewPendingBlock(tree *merkle.Tree) *PendingBlock {
	if nil == tree {
		tree = merkle.NewTree()
	}
	return &PendingBlock{
		NoteCommitmentTree: tree.Clone(),
		Notes:              make(map[note.Commitment]note.PositionedData),
		SpentNullifiers:    mapset.NewThreadUnsafeSet(),
		DelegationChanges:  make(map[stake.IdentityKey]int64),
		SupplyUpdates:      make(map[asset.ID]asset.Supply),
	}
}

// SetHeight - set the block height and derive its epoch
func (b *PendingBlock) SetHeight(height uint64, epochDuration uint64) (chain.Epoch, error) {
	if 0 == height {
		return chain.Epoch{}, fault.ErrInvalidBlockHeight
	}
	if 0 == epochDuration {
		return chain.Epoch{}, fault.ErrInvalidEpochDuration
	}
	b.Height = height
	b.Epoch = chain.EpochForHeight(height, epochDuration)
	b.heightSet = true
	return b.Epoch, nil
}

// AddTransaction - fold a verified transaction into the block
//
// commitments are appended to the tree in byte order so positions do
// not depend on map iteration. Nothing is changed if the transaction
// spends a nullifier already spent in this block or overfills the tree.
func (b *PendingBlock) AddTransaction(tx *verify.VerifiedTransaction) error {

	nullifiers := tx.Nullifiers()
	for _, nf := range nullifiers {
		if b.SpentNullifiers.Contains(nf) {
			return fault.ErrNullifierAlreadySpent
		}
	}

	commitments := tx.Commitments()
	if uint64(len(commitments)) > merkle.MaximumLeaves-b.NoteCommitmentTree.Size() {
		return fault.ErrTreeFull
	}

	for _, cm := range commitments {
		position, err := b.NoteCommitmentTree.Append(cm.Leaf())
		fault.PanicIfError("note commitment tree append", err) // capacity was checked above
		b.Notes[cm] = note.PositionedData{
			Position: position,
			Data:     tx.NewNotes[cm],
		}
	}

	for _, nf := range nullifiers {
		b.SpentNullifiers.Add(nf)
	}

	for identity, delta := range tx.DelegationChanges {
		b.DelegationChanges[identity] += delta
	}
	return nil
}

// SetNextRates - rates for the epoch that follows this block
func (b *PendingBlock) SetNextRates(base stake.BaseRateData, rates []stake.RateData) {
	b.NextBaseRate = &base
	b.NextRates = rates
}

// SetValidatorStatuses - voting power changes to apply at this block
func (b *PendingBlock) SetValidatorStatuses(statuses []stake.ValidatorStatus) {
	b.NextValidatorStatuses = statuses
}

// AddSupplyUpdate - record the new total supply of an asset
func (b *PendingBlock) AddSupplyUpdate(supply asset.Supply) {
	b.SupplyUpdates[supply.ID()] = supply
}

// nullifiers in byte order
func (b *PendingBlock) nullifiers() []note.Nullifier {
	nullifiers := make([]note.Nullifier, 0, b.SpentNullifiers.Cardinality())
	for _, item := range b.SpentNullifiers.ToSlice() {
		nullifiers = append(nullifiers, item.(note.Nullifier))
	}
	sort.Slice(nullifiers, func(i, j int) bool {
		return nullifiers[i].Less(nullifiers[j])
	})
	return nullifiers
}
