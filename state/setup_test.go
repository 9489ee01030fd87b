// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state_test

import (
	"os"
	"testing"

	mapset "github.com/deckarep/golang-set"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/chain"
	"github.com/bitmark-inc/shieldd/genesis"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/state"
	"github.com/bitmark-inc/shieldd/storage"
	"github.com/bitmark-inc/shieldd/verify"
)

const (
	testingDirName = "testing"
	epochDuration  = 10
)

// identity of the single genesis validator
var v1 = stake.IdentityKey{0x56, 0x31}

func TestMain(m *testing.M) {
	setupTestLogger()
	rc := m.Run()
	teardownTestLogger()
	os.Exit(rc)
}

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func teardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

// an in-memory store with a writer
func setup(t *testing.T) (*storage.Store, *state.Writer) {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	w, err := state.New(s, nil)
	if nil != err {
		s.Close()
		t.Fatalf("state new error: %s", err)
	}
	return s, w
}

// one validator V1 with a 500 bps funding stream and power 1000
func genesisState() *genesis.AppState {
	return &genesis.AppState{
		ChainParams: chain.Parameters{
			ChainID:              "shield-test",
			EpochDuration:        epochDuration,
			UnbondingEpochs:      2,
			ActiveValidatorLimit: 4,
			SlashingPenaltyBps:   100,
		},
		Validators: []genesis.ValidatorPower{
			{
				Validator: stake.Validator{
					IdentityKey:    v1,
					ConsensusKey:   stake.ConsensusKey{0x01},
					SequenceNumber: 0,
					Name:           "V1",
					Website:        "https://example.com",
					Description:    "genesis validator",
					FundingStreams: []stake.FundingStream{
						{Address: "addr", RateBps: 500},
					},
				},
				Power: 1000,
			},
		},
		Allocations: []genesis.Allocation{
			{Amount: 1500, Denom: "ushield", Address: "addr-1"},
		},
	}
}

func commitGenesis(t *testing.T, w *state.Writer) {
	err := w.CommitGenesis(genesisState())
	if nil != err {
		t.Fatalf("commit genesis error: %s", err)
	}
}

func commitment(b byte) note.Commitment {
	return note.Commitment{0xc0, b}
}

func nullifier(b byte) note.Nullifier {
	return note.Nullifier{0x0f, b}
}

// a verified transaction creating and spending the given notes
func verifiedTx(id byte, outputs []note.Commitment, spends []note.Nullifier, delegations map[stake.IdentityKey]int64) *verify.VerifiedTransaction {
	tx := &verify.VerifiedTransaction{
		ID:                merkle.NewDigest([]byte{id}),
		NewNotes:          make(map[note.Commitment]note.Data),
		SpentNullifiers:   mapset.NewThreadUnsafeSet(),
		DelegationChanges: delegations,
	}
	for _, cm := range outputs {
		tx.NewNotes[cm] = note.Data{
			EphemeralKey:  note.EphemeralKey{cm[1]},
			EncryptedNote: note.Ciphertext{cm[1], 0xee},
			TransactionID: tx.ID,
		}
	}
	for _, nf := range spends {
		tx.SpentNullifiers.Add(nf)
	}
	return tx
}

// a block on top of the writer's committed tree
func makeBlock(t *testing.T, w *state.Writer, height uint64, txs ...*verify.VerifiedTransaction) *state.PendingBlock {
	tree, err := w.Reader().NoteCommitmentTree()
	if nil != err {
		t.Fatalf("note commitment tree error: %s", err)
	}
	block := state.NewPendingBlock(tree)
	_, err = block.SetHeight(height, epochDuration)
	if nil != err {
		t.Fatalf("set height error: %s", err)
	}
	for i, tx := range txs {
		err := block.AddTransaction(tx)
		if nil != err {
			t.Fatalf("add transaction[%d] error: %s", i, err)
		}
	}
	return block
}
