// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/bitmark-inc/shieldd/asset"
	"github.com/bitmark-inc/shieldd/chain"
	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/genesis"
	"github.com/bitmark-inc/shieldd/merkle"
	"github.com/bitmark-inc/shieldd/note"
	"github.com/bitmark-inc/shieldd/stake"
	"github.com/bitmark-inc/shieldd/statetree"
	"github.com/bitmark-inc/shieldd/storage"
	"github.com/bitmark-inc/shieldd/verify"
)

// number of block records kept in memory
const blockCacheSize = 256

// Reader - queries on committed state
type Reader struct {
	pool   *storage.Pools
	tree   *statetree.Tree
	blocks *lru.Cache
}

// check interface
var _ verify.Chain = (*Reader)(nil)

// NewReader - a reader over a store
func NewReader(store *storage.Store) (*Reader, error) {
	blocks, err := lru.New(blockCacheSize)
	if nil != err {
		return nil, err
	}
	return &Reader{
		pool:   &store.Pool,
		tree:   statetree.New(store.Pool.TreeNodes, store.Pool.TreeRoots),
		blocks: blocks,
	}, nil
}

// GenesisConfiguration - the committed genesis state
func (r *Reader) GenesisConfiguration() (*genesis.AppState, error) {
	buffer, err := r.pool.Blobs.Get(genesisConfigKey)
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.ErrGenesisNotFound
	}
	return genesis.Unpack(buffer)
}

// ChainParameters - parameters fixed at genesis
func (r *Reader) ChainParameters() (chain.Parameters, error) {
	appState, err := r.GenesisConfiguration()
	if nil != err {
		return chain.Parameters{}, err
	}
	return appState.ChainParams, nil
}

// Height - height of the last committed block, zero before the first
func (r *Reader) Height() (uint64, error) {
	last, found, err := r.pool.Blocks.LastElement()
	if nil != err || !found {
		return 0, err
	}
	if 8 != len(last.Key) {
		return 0, fault.ErrKeyLength
	}
	return binary.BigEndian.Uint64(last.Key), nil
}

// Block - a committed block record
func (r *Reader) Block(height uint64) (*BlockRecord, error) {
	if cached, ok := r.blocks.Get(height); ok {
		b := cached.(BlockRecord)
		return &b, nil
	}

	buffer, err := r.pool.Blocks.Get(heightKey(height))
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.ErrBlockNotFound
	}
	b, err := unpackBlock(height, buffer)
	if nil != err {
		return nil, err
	}
	r.blocks.Add(height, *b)
	return b, nil
}

func unpackBlock(height uint64, buffer []byte) (*BlockRecord, error) {
	v := blockValue{}
	err := rlp.DecodeBytes(buffer, &v)
	if nil != err {
		return nil, err
	}
	return &BlockRecord{
		Height:    height,
		NCTAnchor: v.NCTAnchor,
		AppHash:   v.AppHash,
	}, nil
}

// RecentAnchors - note commitment tree roots of the last count blocks, newest first
func (r *Reader) RecentAnchors(count int) ([]merkle.Digest, error) {
	elements, err := r.pool.Blocks.LastElements(count)
	if nil != err {
		return nil, err
	}
	anchors := make([]merkle.Digest, 0, len(elements))
	for _, e := range elements {
		if 8 != len(e.Key) {
			return nil, fault.ErrKeyLength
		}
		b, err := unpackBlock(binary.BigEndian.Uint64(e.Key), e.Value)
		if nil != err {
			return nil, err
		}
		anchors = append(anchors, b.NCTAnchor)
	}
	return anchors, nil
}

// NoteCommitmentTree - the tree as of the last committed block
func (r *Reader) NoteCommitmentTree() (*merkle.Tree, error) {
	buffer, err := r.pool.Blobs.Get(noteCommitmentTreeKey)
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return merkle.NewTree(), nil
	}
	return merkle.UnpackTree(buffer)
}

// TreeRoot - root of the authenticated tree at a block height
func (r *Reader) TreeRoot(height uint64) (common.Hash, error) {
	return r.tree.Root(height)
}

// Note - a committed note
func (r *Reader) Note(commitment note.Commitment) (*NoteRecord, error) {
	buffer, err := r.pool.Notes.Get(commitment[:])
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.ErrNoteNotFound
	}
	v := noteValue{}
	err = rlp.DecodeBytes(buffer, &v)
	if nil != err {
		return nil, err
	}
	return &NoteRecord{
		Commitment: commitment,
		Note: note.PositionedData{
			Position: v.Position,
			Data: note.Data{
				EphemeralKey:  v.EphemeralKey,
				EncryptedNote: v.EncryptedNote,
				TransactionID: v.TransactionID,
			},
		},
		Height: v.Height,
	}, nil
}

// NullifierHeight - height at which a nullifier was spent
//
// second result is false if it has not been spent
func (r *Reader) NullifierHeight(nullifier note.Nullifier) (uint64, bool, error) {
	return r.pool.Nullifiers.GetN(nullifier[:])
}

// Validator - a validator with its funding streams
func (r *Reader) Validator(identity stake.IdentityKey) (*ValidatorRecord, error) {
	buffer, err := r.pool.Validators.Get(identity[:])
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.ErrValidatorNotFound
	}
	v, err := unpackValidator(identity, buffer)
	if nil != err {
		return nil, err
	}
	v.Validator.FundingStreams, err = r.FundingStreams(identity)
	if nil != err {
		return nil, err
	}
	return v, nil
}

// FundingStreams - a validator's funding streams in definition order
func (r *Reader) FundingStreams(identity stake.IdentityKey) ([]stake.FundingStream, error) {
	streams := make([]stake.FundingStream, 0)
	err := r.pool.FundingStreams.NewFetchCursor().Prefix(identity[:]).Map(func(key []byte, value []byte) error {
		fs := fundingStreamValue{}
		err := rlp.DecodeBytes(value, &fs)
		if nil != err {
			return err
		}
		streams = append(streams, stake.FundingStream{
			Address: fs.Address,
			RateBps: fs.RateBps,
		})
		return nil
	})
	if nil != err {
		return nil, err
	}
	return streams, nil
}

// BaseRate - chain wide rates of an epoch
func (r *Reader) BaseRate(epoch uint64) (stake.BaseRateData, error) {
	buffer, err := r.pool.BaseRates.Get(heightKey(epoch))
	if nil != err {
		return stake.BaseRateData{}, err
	}
	if nil == buffer {
		return stake.BaseRateData{}, fault.ErrRateNotFound
	}
	rate, err := unpackRate(buffer)
	if nil != err {
		return stake.BaseRateData{}, err
	}
	return stake.BaseRateData{
		EpochIndex:       epoch,
		BaseRewardRate:   rate.RewardRate,
		BaseExchangeRate: rate.ExchangeRate,
	}, nil
}

// ValidatorRate - one validator's rates of an epoch
func (r *Reader) ValidatorRate(identity stake.IdentityKey, epoch uint64) (stake.RateData, error) {
	buffer, err := r.pool.ValidatorRates.Get(epochIdentityKey(epoch, identity))
	if nil != err {
		return stake.RateData{}, err
	}
	if nil == buffer {
		return stake.RateData{}, fault.ErrRateNotFound
	}
	rate, err := unpackRate(buffer)
	if nil != err {
		return stake.RateData{}, err
	}
	return stake.RateData{
		IdentityKey:           identity,
		EpochIndex:            epoch,
		ValidatorRewardRate:   rate.RewardRate,
		ValidatorExchangeRate: rate.ExchangeRate,
	}, nil
}

// NextRateData - validator rates of the newest epoch that has base rates
//
// empty before genesis
func (r *Reader) NextRateData() (stake.RateDataByID, error) {
	rates := stake.RateDataByID{}

	last, found, err := r.pool.BaseRates.LastElement()
	if nil != err || !found {
		return rates, err
	}

	err = r.pool.ValidatorRates.NewFetchCursor().Prefix(last.Key).Map(func(key []byte, value []byte) error {
		epoch, identity, err := splitEpochIdentityKey(key)
		if nil != err {
			return err
		}
		rate, err := unpackRate(value)
		if nil != err {
			return err
		}
		rates[identity] = stake.RateData{
			IdentityKey:           identity,
			EpochIndex:            epoch,
			ValidatorRewardRate:   rate.RewardRate,
			ValidatorExchangeRate: rate.ExchangeRate,
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	return rates, nil
}

// DelegationChanges - net delegation change per validator in an epoch
func (r *Reader) DelegationChanges(epoch uint64) (map[stake.IdentityKey]int64, error) {
	changes := make(map[stake.IdentityKey]int64)
	err := r.pool.DelegationChanges.NewFetchCursor().Prefix(heightKey(epoch)).Map(func(key []byte, value []byte) error {
		_, identity, err := splitEpochIdentityKey(key)
		if nil != err {
			return err
		}
		delta, err := unpackDelta(value)
		if nil != err {
			return err
		}
		changes[identity] = delta
		return nil
	})
	if nil != err {
		return nil, err
	}
	return changes, nil
}

// Asset - registered supply of an asset
func (r *Reader) Asset(id asset.ID) (asset.Supply, error) {
	buffer, err := r.pool.Assets.Get(id[:])
	if nil != err {
		return asset.Supply{}, err
	}
	if nil == buffer {
		return asset.Supply{}, fault.ErrAssetNotFound
	}
	v := assetValue{}
	err = rlp.DecodeBytes(buffer, &v)
	if nil != err {
		return asset.Supply{}, err
	}
	return asset.Supply{
		Denom:       v.Denom,
		TotalSupply: v.TotalSupply,
	}, nil
}
