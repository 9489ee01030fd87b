// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state_test

import (
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/shieldd/asset"
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/state"
	"github.com/bitmark-inc/shieldd/statetree"
	"github.com/bitmark-inc/shieldd/storage"
)

func TestGenesisScenario(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	rates := w.Publisher().Subscribe(state.NextRateDataTopic)
	defer rates.Close()

	commitGenesis(t, w)
	r := w.Reader()

	for _, epoch := range []uint64{0, 1} {
		base, err := r.BaseRate(epoch)
		assert.Nil(t, err, "base rate: %d", epoch)
		assert.Equal(t, stake.BaseRateData{EpochIndex: epoch, BaseRewardRate: 0, BaseExchangeRate: 100000000}, base)

		rate, err := r.ValidatorRate(v1, epoch)
		assert.Nil(t, err, "validator rate: %d", epoch)
		assert.Equal(t, stake.RateData{IdentityKey: v1, EpochIndex: epoch, ValidatorRewardRate: 0, ValidatorExchangeRate: 100000000}, rate)
	}

	_, err := r.BaseRate(2)
	assert.Equal(t, fault.ErrRateNotFound, err, "epoch 2 base rate")

	expected := stake.RateDataByID{
		v1: {IdentityKey: v1, EpochIndex: 1, ValidatorRewardRate: 0, ValidatorExchangeRate: 100000000},
	}
	select {
	case <-rates.Changed():
	default:
		t.Fatal("next rate data not signalled")
	}
	assert.Equal(t, expected, w.Publisher().NextRateData(), "published next rate data")

	persisted, err := r.NextRateData()
	assert.Nil(t, err, "next rate data")
	assert.Equal(t, expected, persisted, "persisted next rate data")

	v, err := r.Validator(v1)
	assert.Nil(t, err, "validator")
	assert.Equal(t, uint64(1000), v.VotingPower)
	assert.Equal(t, stake.Active, v.State)
	assert.Equal(t, "V1", v.Validator.Name)
	assert.Equal(t, []stake.FundingStream{{Address: "addr", RateBps: 500}}, v.Validator.FundingStreams)

	params, ok := w.Publisher().ChainParameters()
	assert.True(t, ok, "chain parameters published")
	assert.Equal(t, genesisState().ChainParams, params)

	supply, err := r.Asset(asset.IDFromDenom("ushield"))
	assert.Nil(t, err, "asset")
	assert.Equal(t, asset.Supply{Denom: "ushield", TotalSupply: 1500}, supply)

	// height and anchors are not published by genesis
	assert.Equal(t, uint64(0), w.Publisher().Height())
	assert.Empty(t, w.Publisher().RecentAnchors())
}

func TestGenesisTwice(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	second := genesisState()
	second.ChainParams.ChainID = "other-chain"
	second.Validators[0].Power = 5
	err := w.CommitGenesis(second)
	assert.Equal(t, fault.ErrGenesisAlreadyCommitted, err, "second genesis")

	params, err := w.Reader().ChainParameters()
	assert.Nil(t, err, "chain parameters")
	assert.Equal(t, "shield-test", params.ChainID, "first genesis replaced")

	v, err := w.Reader().Validator(v1)
	assert.Nil(t, err, "validator")
	assert.Equal(t, uint64(1000), v.VotingPower, "first genesis replaced")
}

func TestFirstBlock(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	heights := w.Publisher().Subscribe(state.HeightTopic)
	defer heights.Close()

	tx := verifiedTx(1, []note.Commitment{commitment(1)}, []note.Nullifier{nullifier(1)}, nil)
	block := makeBlock(t, w, 1, tx)
	assert.Equal(t, uint64(0), block.Epoch.Index, "epoch")

	appHash, err := w.CommitBlock(block)
	assert.Nil(t, err, "commit block")
	assert.NotEqual(t, common.Hash{}, appHash, "zero app hash")

	select {
	case <-heights.Changed():
	default:
		t.Fatal("height not signalled")
	}
	assert.Equal(t, uint64(1), w.Publisher().Height(), "published height")

	anchors := w.Publisher().RecentAnchors()
	assert.Equal(t, 1, len(anchors), "anchors")
	assert.Equal(t, block.NoteCommitmentTree.Root(), anchors[0], "front anchor")

	r := w.Reader()
	height, err := r.Height()
	assert.Nil(t, err, "height")
	assert.Equal(t, uint64(1), height)

	b, err := r.Block(1)
	assert.Nil(t, err, "block")
	assert.Equal(t, appHash, b.AppHash, "stored app hash")
	assert.Equal(t, anchors[0], b.NCTAnchor, "stored anchor")

	n, err := r.Note(commitment(1))
	assert.Nil(t, err, "note")
	assert.Equal(t, uint64(0), n.Note.Position, "position")
	assert.Equal(t, uint64(1), n.Height, "note height")
	assert.Equal(t, tx.NewNotes[commitment(1)], n.Note.Data, "note data")

	spentAt, spent, err := r.NullifierHeight(nullifier(1))
	assert.Nil(t, err, "nullifier")
	assert.True(t, spent, "nullifier spent")
	assert.Equal(t, uint64(1), spentAt, "nullifier height")

	_, spent, err = r.NullifierHeight(nullifier(2))
	assert.Nil(t, err, "nullifier")
	assert.False(t, spent, "unknown nullifier spent")

	tree, err := r.NoteCommitmentTree()
	assert.Nil(t, err, "tree")
	assert.Equal(t, uint64(1), tree.Size(), "tree size")
	assert.Equal(t, anchors[0], tree.Root(), "tree root")
}

func TestFirstBlockDeterministic(t *testing.T) {
	hashes := make([]common.Hash, 2)
	for i := range hashes {
		s, w := setup(t)
		commitGenesis(t, w)

		tx := verifiedTx(1, []note.Commitment{commitment(1)}, []note.Nullifier{nullifier(1)}, nil)
		appHash, err := w.CommitBlock(makeBlock(t, w, 1, tx))
		assert.Nil(t, err, "commit block")
		hashes[i] = appHash
		s.Close()
	}
	assert.Equal(t, hashes[0], hashes[1], "app hash differs between runs")
}

func TestDuplicateNullifierAtomicity(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	first := verifiedTx(1, []note.Commitment{commitment(1)}, []note.Nullifier{nullifier(1)}, nil)
	_, err := w.CommitBlock(makeBlock(t, w, 1, first))
	assert.Nil(t, err, "commit block 1")

	heights := w.Publisher().Subscribe(state.HeightTopic)
	defer heights.Close()
	anchors := w.Publisher().Subscribe(state.RecentAnchorsTopic)
	defer anchors.Close()
	rates := w.Publisher().Subscribe(state.NextRateDataTopic)
	defer rates.Close()

	// re-spend nullifier 1 at height 2 along with new notes and rates
	replay := verifiedTx(2, []note.Commitment{commitment(2)}, []note.Nullifier{nullifier(2), nullifier(1)}, map[stake.IdentityKey]int64{v1: 40})
	block := makeBlock(t, w, 2, replay)
	block.SetNextRates(stake.BaseRateData{EpochIndex: 2, BaseRewardRate: 5, BaseExchangeRate: 100000005},
		[]stake.RateData{{IdentityKey: v1, EpochIndex: 2, ValidatorRewardRate: 5, ValidatorExchangeRate: 100000005}})
	block.AddSupplyUpdate(asset.Supply{Denom: "ushield", TotalSupply: 9999})

	_, err = w.CommitBlock(block)
	assert.Equal(t, fault.ErrNullifierAlreadySpent, err, "double spend across blocks")

	r := w.Reader()

	_, err = r.Block(2)
	assert.Equal(t, fault.ErrBlockNotFound, err, "block row persisted")

	_, err = r.Note(commitment(2))
	assert.Equal(t, fault.ErrNoteNotFound, err, "note persisted")

	_, spent, err := r.NullifierHeight(nullifier(2))
	assert.Nil(t, err, "nullifier")
	assert.False(t, spent, "nullifier persisted")

	spentAt, _, err := r.NullifierHeight(nullifier(1))
	assert.Nil(t, err, "nullifier")
	assert.Equal(t, uint64(1), spentAt, "original spend height changed")

	_, err = r.BaseRate(2)
	assert.Equal(t, fault.ErrRateNotFound, err, "base rate persisted")

	_, err = r.TreeRoot(2)
	assert.Equal(t, fault.ErrTreeRootNotFound, err, "tree version persisted")

	changes, err := r.DelegationChanges(0)
	assert.Nil(t, err, "delegation changes")
	assert.Empty(t, changes, "delegation changes persisted")

	supply, err := r.Asset(asset.IDFromDenom("ushield"))
	assert.Nil(t, err, "asset")
	assert.Equal(t, uint64(1500), supply.TotalSupply, "supply persisted")

	tree, err := r.NoteCommitmentTree()
	assert.Nil(t, err, "tree")
	assert.Equal(t, uint64(1), tree.Size(), "tree blob persisted")

	for _, receiver := range []*state.Receiver{heights, anchors, rates} {
		select {
		case <-receiver.Changed():
			t.Errorf("topic: %s published after failed commit", receiver.Topic())
		default:
		}
	}
	assert.Equal(t, uint64(1), w.Publisher().Height(), "published height")
	assert.Equal(t, 1, len(w.Publisher().RecentAnchors()), "published anchors")

	// the writer is still usable and the height is unchanged
	next := verifiedTx(3, []note.Commitment{commitment(3)}, []note.Nullifier{nullifier(3)}, nil)
	_, err = w.CommitBlock(makeBlock(t, w, 2, next))
	assert.Nil(t, err, "commit block 2 after failure")
}

func TestAppHashReplay(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	var appHash common.Hash
	for height := uint64(1); height <= 3; height += 1 {
		tx := verifiedTx(byte(height), []note.Commitment{commitment(byte(height))}, nil, nil)
		block := makeBlock(t, w, height, tx)

		var err error
		appHash, err = w.CommitBlock(block)
		assert.Nil(t, err, "commit block: %d", height)

		// replay the same put against the committed store at the prior version
		anchor := block.NoteCommitmentTree.Root()
		replay := statetree.New(s.Pool.TreeNodes, s.Pool.TreeRoots)
		root, _, err := replay.PutValueSet([]statetree.KeyValue{
			{Key: statetree.NoteCommitmentAnchor, Value: anchor[:]},
		}, height)
		assert.Nil(t, err, "replay: %d", height)
		if !assert.Equal(t, appHash, root, "replayed root: %d", height) {
			t.Logf("block: %s", spew.Sdump(block))
		}

		committed, err := w.Reader().TreeRoot(height)
		assert.Nil(t, err, "tree root: %d", height)
		assert.Equal(t, appHash, committed, "tree root: %d", height)
	}
}

func TestOutOfSequenceBlock(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	_, err := w.CommitBlock(makeBlock(t, w, 2))
	assert.Equal(t, fault.ErrOutOfSequenceBlock, err, "skipped height")

	block := state.NewPendingBlock(nil)
	_, err = w.CommitBlock(block)
	assert.Equal(t, fault.ErrInvalidBlockHeight, err, "height not set")

	_, err = w.CommitBlock(makeBlock(t, w, 1))
	assert.Nil(t, err, "commit block 1")

	_, err = w.CommitBlock(makeBlock(t, w, 1))
	assert.Equal(t, fault.ErrOutOfSequenceBlock, err, "repeated height")
}

func TestEpochEndUpdates(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	for height := uint64(1); height < epochDuration-1; height += 1 {
		delegate := verifiedTx(byte(height), nil, nil, map[stake.IdentityKey]int64{v1: 100})
		_, err := w.CommitBlock(makeBlock(t, w, height, delegate))
		assert.Nil(t, err, "commit block: %d", height)
	}

	undelegate := verifiedTx(0x99, nil, nil, map[stake.IdentityKey]int64{v1: -30})
	block := makeBlock(t, w, epochDuration-1, undelegate)
	assert.True(t, block.Epoch.IsLastBlock(block.Height), "last block of epoch")

	nextRate := stake.RateData{IdentityKey: v1, EpochIndex: 2, ValidatorRewardRate: 7, ValidatorExchangeRate: 100000007}
	block.SetNextRates(stake.BaseRateData{EpochIndex: 2, BaseRewardRate: 6, BaseExchangeRate: 100000006}, []stake.RateData{nextRate})
	block.SetValidatorStatuses([]stake.ValidatorStatus{{IdentityKey: v1, VotingPower: 1770, State: stake.Active}})
	block.AddSupplyUpdate(asset.Supply{Denom: "ushield", TotalSupply: 1600})

	_, err := w.CommitBlock(block)
	assert.Nil(t, err, "commit last block of epoch")

	r := w.Reader()

	changes, err := r.DelegationChanges(0)
	assert.Nil(t, err, "delegation changes")
	assert.Equal(t, map[stake.IdentityKey]int64{v1: 100*(epochDuration-2) - 30}, changes)

	base, err := r.BaseRate(2)
	assert.Nil(t, err, "base rate")
	assert.Equal(t, uint64(100000006), base.BaseExchangeRate)

	expected := stake.RateDataByID{v1: nextRate}
	assert.Equal(t, expected, w.Publisher().NextRateData(), "published next rates")
	persisted, err := r.NextRateData()
	assert.Nil(t, err, "next rate data")
	assert.Equal(t, expected, persisted, "persisted next rates")

	v, err := r.Validator(v1)
	assert.Nil(t, err, "validator")
	assert.Equal(t, uint64(1770), v.VotingPower, "voting power")
	assert.Equal(t, "V1", v.Validator.Name, "metadata kept")

	supply, err := r.Asset(asset.IDFromDenom("ushield"))
	assert.Nil(t, err, "asset")
	assert.Equal(t, uint64(1600), supply.TotalSupply, "supply upsert")
}

func TestUnknownValidatorStatus(t *testing.T) {
	s, w := setup(t)
	defer s.Close()

	commitGenesis(t, w)

	block := makeBlock(t, w, 1)
	block.SetValidatorStatuses([]stake.ValidatorStatus{{IdentityKey: stake.IdentityKey{0xff}, VotingPower: 1}})
	_, err := w.CommitBlock(block)
	assert.Equal(t, fault.ErrValidatorNotFound, err, "unknown validator")

	height, err := w.Reader().Height()
	assert.Nil(t, err, "height")
	assert.Equal(t, uint64(0), height, "height advanced")
}

func TestRestart(t *testing.T) {
	name := filepath.Join(testingDirName, "restart.leveldb")

	s, err := storage.Open(name, storage.ReadWrite)
	assert.Nil(t, err, "open")
	w, err := state.New(s, nil)
	assert.Nil(t, err, "new")
	commitGenesis(t, w)

	for height := uint64(1); height <= state.RecentAnchorsLimit+2; height += 1 {
		tx := verifiedTx(byte(height), []note.Commitment{commitment(byte(height))}, nil, nil)
		_, err := w.CommitBlock(makeBlock(t, w, height, tx))
		assert.Nil(t, err, "commit block: %d", height)
	}
	anchors := w.Publisher().RecentAnchors()
	s.Close()

	s, err = storage.Open(name, storage.ReadWrite)
	assert.Nil(t, err, "reopen")
	defer s.Close()

	w, err = state.New(s, nil)
	assert.Nil(t, err, "new after restart")

	assert.Equal(t, uint64(state.RecentAnchorsLimit+2), w.Publisher().Height(), "height")
	assert.Equal(t, anchors, w.Publisher().RecentAnchors(), "anchors")
	assert.Equal(t, state.RecentAnchorsLimit, len(anchors), "anchors bound")

	params, ok := w.Publisher().ChainParameters()
	assert.True(t, ok, "chain parameters")
	assert.Equal(t, "shield-test", params.ChainID)

	_, err = w.CommitBlock(makeBlock(t, w, state.RecentAnchorsLimit+3))
	assert.Nil(t, err, "commit after restart")
}

func TestMetrics(t *testing.T) {
	s, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer s.Close()

	metrics := state.NewMetrics()
	w, err := state.New(s, metrics)
	assert.Nil(t, err, "new")
	commitGenesis(t, w)

	_, err = w.CommitBlock(makeBlock(t, w, 1))
	assert.Nil(t, err, "commit block")
	_, err = w.CommitBlock(makeBlock(t, w, 3))
	assert.NotNil(t, err, "out of sequence")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BlocksCommitted))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CommitFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Height))
}
