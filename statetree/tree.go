// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package statetree

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/storage"
)

// KeyValue - one update
type KeyValue struct {
	Key   Key
	Value []byte
}

// NodeBatch - nodes created by one version's updates
type NodeBatch struct {
	Version uint64
	Root    common.Hash
	Nodes   map[common.Hash][]byte
}

// Tree - access to the committed tree
type Tree struct {
	nodes *storage.PoolHandle
	roots *storage.PoolHandle
}

// node source for the trie: new nodes are captured in memory, reads
// fall through to committed nodes
type nodeStore struct {
	*memorydb.Database
	committed *storage.PoolHandle
}

// check interface
var _ ethdb.KeyValueStore = (*nodeStore)(nil)

// Has - pending or committed node
func (s *nodeStore) Has(key []byte) (bool, error) {
	if ok, err := s.Database.Has(key); nil == err && ok {
		return true, nil
	}
	return s.committed.Has(key)
}

// Get - pending or committed node
func (s *nodeStore) Get(key []byte) ([]byte, error) {
	if value, err := s.Database.Get(key); nil == err {
		return value, nil
	}
	value, err := s.committed.Get(key)
	if nil != err {
		return nil, err
	}
	if nil == value {
		return nil, fault.ErrTreeNodeNotFound
	}
	return value, nil
}

// New - tree over the node and root pools
func New(nodes *storage.PoolHandle, roots *storage.PoolHandle) *Tree {
	return &Tree{
		nodes: nodes,
		roots: roots,
	}
}

func versionKey(version uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, version)
	return key
}

// Root - the root committed at exactly version
func (t *Tree) Root(version uint64) (common.Hash, error) {
	value, err := t.roots.Get(versionKey(version))
	if nil != err {
		return common.Hash{}, err
	}
	if nil == value {
		return common.Hash{}, fault.ErrTreeRootNotFound
	}
	return common.BytesToHash(value), nil
}

// LatestVersion - the newest committed version and its root
func (t *Tree) LatestVersion() (uint64, common.Hash, bool, error) {
	e, found, err := t.roots.LastElement()
	if nil != err || !found {
		return 0, common.Hash{}, false, err
	}
	return binary.BigEndian.Uint64(e.Key), common.BytesToHash(e.Value), true, nil
}

// the root of the newest version strictly before version, zero for none
func (t *Tree) rootBefore(version uint64) (common.Hash, error) {
	e, found, err := t.roots.LastElementBefore(versionKey(version))
	if nil != err || !found {
		return common.Hash{}, err
	}
	return common.BytesToHash(e.Value), nil
}

func (t *Tree) open(root common.Hash) (*trie.Trie, *trie.Database, *nodeStore, error) {
	store := &nodeStore{
		Database:  memorydb.New(),
		committed: t.nodes,
	}
	db := trie.NewDatabase(store)
	tr, err := trie.New(root, db)
	if nil != err {
		return nil, nil, nil, err
	}
	return tr, db, store, nil
}

// PutValueSet - apply updates on top of the latest version before version
//
// returns the new root and the nodes to persist; nothing is written
func (t *Tree) PutValueSet(kvs []KeyValue, version uint64) (common.Hash, *NodeBatch, error) {
	prior, err := t.rootBefore(version)
	if nil != err {
		return common.Hash{}, nil, err
	}

	tr, db, store, err := t.open(prior)
	if nil != err {
		return common.Hash{}, nil, err
	}

	for _, kv := range kvs {
		err := tr.TryUpdate(kv.Key.Hash().Bytes(), kv.Value)
		if nil != err {
			return common.Hash{}, nil, err
		}
	}

	root, err := tr.Commit(nil)
	if nil != err {
		return common.Hash{}, nil, err
	}
	err = db.Commit(root, false)
	if nil != err {
		return common.Hash{}, nil, err
	}

	batch := &NodeBatch{
		Version: version,
		Root:    root,
		Nodes:   make(map[common.Hash][]byte),
	}

	iter := store.Database.NewIterator()
	for iter.Next() {
		node := make([]byte, len(iter.Value()))
		copy(node, iter.Value())
		batch.Nodes[common.BytesToHash(iter.Key())] = node
	}
	iter.Release()
	err = iter.Error()
	if nil != err {
		return common.Hash{}, nil, err
	}

	return root, batch, nil
}

// WriteNodeBatch - place the nodes and the version's root into a transaction
//
// a version can only be written once
func (t *Tree) WriteNodeBatch(trx storage.Transaction, batch *NodeBatch) error {
	for hash, node := range batch.Nodes {
		trx.Put(t.nodes, hash.Bytes(), node)
	}
	return trx.Insert(t.roots, versionKey(batch.Version), batch.Root.Bytes())
}

// Get - value of a key at a committed version, nil if absent
func (t *Tree) Get(version uint64, key Key) ([]byte, error) {
	root, err := t.Root(version)
	if nil != err {
		return nil, err
	}
	tr, _, _, err := t.open(root)
	if nil != err {
		return nil, err
	}
	return tr.TryGet(key.Hash().Bytes())
}
