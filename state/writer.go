// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/asset"
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/genesis"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/statetree"
	"github.com/bitmark-inc/shieldd/storage"
)

// epochs that have rates before any block is committed
var genesisEpochs = []uint64{0, 1}

// Writer - the single commit path
//
// commits are serialised by the writer's lock
type Writer struct {
	sync.Mutex

	log       *logger.L
	store     *storage.Store
	reader    *Reader
	tree      *statetree.Tree
	publisher *Publisher
	metrics   *Metrics

	height  uint64
	anchors *anchorsWindow
}

// New - a writer over a store with its publisher primed from committed state
//
// metrics may be nil
func New(store *storage.Store, metrics *Metrics) (*Writer, error) {
	reader, err := NewReader(store)
	if nil != err {
		return nil, err
	}

	w := &Writer{
		log:       logger.New("writer"),
		store:     store,
		reader:    reader,
		tree:      statetree.New(store.Pool.TreeNodes, store.Pool.TreeRoots),
		publisher: newPublisher(),
		metrics:   metrics,
	}

	err = w.initialiseCaches()
	if nil != err {
		return nil, err
	}
	return w, nil
}

func (w *Writer) initialiseCaches() error {
	params, err := w.reader.ChainParameters()
	switch err {
	case nil:
		w.publisher.publishChainParameters(params)
	case fault.ErrGenesisNotFound:
		w.log.Info("no genesis committed")
	default:
		return err
	}

	height, err := w.reader.Height()
	if nil != err {
		return err
	}

	rates, err := w.reader.NextRateData()
	if nil != err {
		return err
	}

	anchors, err := w.reader.RecentAnchors(RecentAnchorsLimit)
	if nil != err {
		return err
	}

	w.height = height
	w.anchors = newAnchorsWindow(RecentAnchorsLimit, anchors)

	w.publisher.publishHeight(height)
	w.publisher.publishNextRateData(rates)
	w.publisher.publishRecentAnchors(w.anchors.list())

	if nil != w.metrics {
		w.metrics.Height.Set(float64(height))
	}

	w.log.Infof("height: %d  anchors: %d  next rates: %d", height, w.anchors.size(), len(rates))
	return nil
}

// Reader - the writer's private reader
func (w *Writer) Reader() *Reader {
	return w.reader
}

// Publisher - the published chain state
func (w *Writer) Publisher() *Publisher {
	return w.publisher
}

// CommitGenesis - write the genesis state, once per chain
func (w *Writer) CommitGenesis(appState *genesis.AppState) error {
	w.Lock()
	defer w.Unlock()

	err := appState.Validate()
	if nil != err {
		return err
	}

	trx, err := w.store.Begin()
	if nil != err {
		return err
	}

	nextRates, err := w.writeGenesis(trx, appState)
	if nil != err {
		trx.Abort()
		w.metrics.failed()
		w.log.Errorf("genesis aborted: %s", err)
		return err
	}

	err = trx.Commit()
	if nil != err {
		w.metrics.failed()
		w.log.Criticalf("genesis commit error: %s", err)
		return err
	}

	w.publisher.publishChainParameters(appState.ChainParams)
	w.publisher.publishNextRateData(nextRates)

	w.log.Infof("genesis committed: chain: %s  validators: %d", appState.ChainParams.ChainID, len(appState.Validators))
	return nil
}

func (w *Writer) writeGenesis(trx storage.Transaction, appState *genesis.AppState) (stake.RateDataByID, error) {
	pool := &w.store.Pool

	packed, err := appState.Pack()
	if nil != err {
		return nil, err
	}

	err = trx.Insert(pool.Blobs, genesisConfigKey, packed)
	if fault.ErrKeyExists == err {
		return nil, fault.ErrGenesisAlreadyCommitted
	} else if nil != err {
		return nil, err
	}

	for _, epoch := range genesisEpochs {
		base := stake.InitialBaseRate(epoch)
		buffer, err := packRate(base.BaseRewardRate, base.BaseExchangeRate)
		if nil != err {
			return nil, err
		}
		err = trx.Insert(pool.BaseRates, heightKey(epoch), buffer)
		if nil != err {
			return nil, err
		}
	}

	nextRates := stake.RateDataByID{}
	for i := range appState.Validators {
		v := &appState.Validators[i].Validator
		identity := v.IdentityKey

		// every genesis validator starts active
		buffer, err := packValidator(v, appState.Validators[i].Power, stake.Active, 0)
		if nil != err {
			return nil, err
		}
		err = trx.Insert(pool.Validators, identity[:], buffer)
		if nil != err {
			return nil, err
		}

		for j, fs := range v.FundingStreams {
			buffer, err := rlp.EncodeToBytes(fundingStreamValue{
				Address: fs.Address,
				RateBps: fs.RateBps,
			})
			if nil != err {
				return nil, err
			}
			trx.Put(pool.FundingStreams, fundingStreamKey(identity, j), buffer)
		}

		for _, epoch := range genesisEpochs {
			rate := stake.InitialRate(identity, epoch)
			buffer, err := packRate(rate.ValidatorRewardRate, rate.ValidatorExchangeRate)
			if nil != err {
				return nil, err
			}
			err = trx.Insert(pool.ValidatorRates, epochIdentityKey(epoch, identity), buffer)
			if nil != err {
				return nil, err
			}
		}

		nextRates[identity] = stake.InitialRate(identity, genesisEpochs[len(genesisEpochs)-1])
	}

	for denom, amount := range appState.Supplies() {
		err := putAsset(trx, pool.Assets, asset.Supply{Denom: denom, TotalSupply: amount})
		if nil != err {
			return nil, err
		}
	}

	return nextRates, nil
}

// CommitBlock - apply a block and return the app hash
//
// the block must be the one following the last committed block;
// on any error nothing is written and nothing is published
func (w *Writer) CommitBlock(block *PendingBlock) (common.Hash, error) {
	w.Lock()
	defer w.Unlock()

	start := time.Now()

	if !block.heightSet {
		w.metrics.failed()
		return common.Hash{}, fault.ErrInvalidBlockHeight
	}
	if block.Height != w.height+1 {
		w.metrics.failed()
		w.log.Errorf("block height: %d  expected: %d", block.Height, w.height+1)
		return common.Hash{}, fault.ErrOutOfSequenceBlock
	}

	trx, err := w.store.Begin()
	if nil != err {
		w.metrics.failed()
		return common.Hash{}, err
	}

	nctAnchor := block.NoteCommitmentTree.Root()
	appHash, err := w.writeBlock(trx, block, nctAnchor)
	if nil != err {
		trx.Abort()
		w.metrics.failed()
		w.log.Errorf("block: %d aborted: %s", block.Height, err)
		return common.Hash{}, err
	}

	anchors := w.anchors.clone()
	anchors.push(nctAnchor)

	var nextRates stake.RateDataByID
	if nil != block.NextRates {
		nextRates = make(stake.RateDataByID, len(block.NextRates))
		for _, rate := range block.NextRates {
			nextRates[rate.IdentityKey] = rate
		}
	}

	err = trx.Commit()
	if nil != err {
		w.metrics.failed()
		w.log.Criticalf("block: %d commit error: %s", block.Height, err)
		return common.Hash{}, err
	}

	w.height = block.Height
	w.anchors = anchors

	w.publisher.publishHeight(block.Height)
	w.publisher.publishRecentAnchors(anchors.list())
	if nil != nextRates {
		w.publisher.publishNextRateData(nextRates)
	}

	w.metrics.committed(block.Height, start)
	w.log.Infof("block: %d  app hash: %x  nct: %s", block.Height, appHash, nctAnchor)
	return appHash, nil
}

func (w *Writer) writeBlock(trx storage.Transaction, block *PendingBlock, nctAnchor merkle.Digest) (common.Hash, error) {
	pool := &w.store.Pool
	height := block.Height

	packedTree, err := block.NoteCommitmentTree.Pack()
	if nil != err {
		return common.Hash{}, err
	}
	trx.Put(pool.Blobs, noteCommitmentTreeKey, packedTree)

	// the anchor is the only key in the authenticated tree, its root is the app hash
	kvs := []statetree.KeyValue{
		{Key: statetree.NoteCommitmentAnchor, Value: nctAnchor[:]},
	}
	appHash, batch, err := w.tree.PutValueSet(kvs, height)
	if nil != err {
		return common.Hash{}, err
	}
	err = w.tree.WriteNodeBatch(trx, batch)
	if nil != err {
		return common.Hash{}, err
	}

	buffer, err := rlp.EncodeToBytes(blockValue{
		NCTAnchor: nctAnchor,
		AppHash:   appHash,
	})
	if nil != err {
		return common.Hash{}, err
	}
	err = trx.Insert(pool.Blocks, heightKey(height), buffer)
	if nil != err {
		return common.Hash{}, err
	}

	for cm, positioned := range block.Notes {
		buffer, err := rlp.EncodeToBytes(noteValue{
			EphemeralKey:  positioned.Data.EphemeralKey,
			EncryptedNote: positioned.Data.EncryptedNote,
			TransactionID: positioned.Data.TransactionID,
			Position:      positioned.Position,
			Height:        height,
		})
		if nil != err {
			return common.Hash{}, err
		}
		err = trx.Insert(pool.Notes, cm[:], buffer)
		if nil != err {
			return common.Hash{}, err
		}
	}

	// a nullifier spent at any earlier height fails the whole block
	for _, nf := range block.nullifiers() {
		err := trx.Insert(pool.Nullifiers, nf[:], heightKey(height))
		if fault.ErrKeyExists == err {
			w.log.Warnf("block: %d  nullifier: %s already spent", height, nf)
			return common.Hash{}, fault.ErrNullifierAlreadySpent
		} else if nil != err {
			return common.Hash{}, err
		}
	}

	for identity, delta := range block.DelegationChanges {
		key := epochIdentityKey(block.Epoch.Index, identity)
		existing, err := trx.Get(pool.DelegationChanges, key)
		if nil != err {
			return common.Hash{}, err
		}
		if nil != existing {
			previous, err := unpackDelta(existing)
			if nil != err {
				return common.Hash{}, err
			}
			delta += previous
		}
		trx.Put(pool.DelegationChanges, key, packDelta(delta))
	}

	for _, supply := range block.SupplyUpdates {
		err := putAsset(trx, pool.Assets, supply)
		if nil != err {
			return common.Hash{}, err
		}
	}

	if nil != block.NextBaseRate && nil != block.NextRates {
		base := block.NextBaseRate
		buffer, err := packRate(base.BaseRewardRate, base.BaseExchangeRate)
		if nil != err {
			return common.Hash{}, err
		}
		err = trx.Insert(pool.BaseRates, heightKey(base.EpochIndex), buffer)
		if nil != err {
			return common.Hash{}, err
		}

		for _, rate := range block.NextRates {
			buffer, err := packRate(rate.ValidatorRewardRate, rate.ValidatorExchangeRate)
			if nil != err {
				return common.Hash{}, err
			}
			err = trx.Insert(pool.ValidatorRates, epochIdentityKey(rate.EpochIndex, rate.IdentityKey), buffer)
			if nil != err {
				return common.Hash{}, err
			}
		}
	}

	for _, status := range block.NextValidatorStatuses {
		err := updateVotingPower(trx, pool.Validators, status)
		if nil != err {
			return common.Hash{}, err
		}
	}

	return appHash, nil
}

// insert or replace
func putAsset(trx storage.Transaction, assets *storage.PoolHandle, supply asset.Supply) error {
	buffer, err := rlp.EncodeToBytes(assetValue{
		Denom:       supply.Denom,
		TotalSupply: supply.TotalSupply,
	})
	if nil != err {
		return err
	}
	id := supply.ID()
	trx.Put(assets, id[:], buffer)
	return nil
}

// only the voting power changes
func updateVotingPower(trx storage.Transaction, validators *storage.PoolHandle, status stake.ValidatorStatus) error {
	identity := status.IdentityKey
	buffer, err := trx.Get(validators, identity[:])
	if nil != err {
		return err
	}
	if nil == buffer {
		return fault.ErrValidatorNotFound
	}
	v, err := unpackValidator(identity, buffer)
	if nil != err {
		return err
	}
	buffer, err = packValidator(&v.Validator, status.VotingPower, v.State, v.UnbondingEpoch)
	if nil != err {
		return err
	}
	trx.Put(validators, identity[:], buffer)
	return nil
}
