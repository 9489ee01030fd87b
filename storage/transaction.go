// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/shieldd/fault"
)

// Transaction - an atomic set of writes across all pools
//
// nothing is visible to pool readers until Commit; Get and Has on the
// transaction see its own pending writes
type Transaction interface {
	Insert(*PoolHandle, []byte, []byte) error
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) ([]byte, error)
	Has(*PoolHandle, []byte) (bool, error)
	Commit() error
	Abort()
}

type transaction struct {
	sync.Mutex
	store *Store
	inUse bool
	batch *leveldb.Batch
	cache *writeCache
}

func newTransaction(s *Store) *transaction {
	return &transaction{
		store: s,
		batch: new(leveldb.Batch),
		cache: newWriteCache(),
	}
}

// Begin - start the single write transaction of the store
func (s *Store) Begin() (Transaction, error) {
	t := s.trx
	t.Lock()
	defer t.Unlock()

	if t.inUse {
		return nil, fault.ErrTransactionInUse
	}
	t.inUse = true
	t.batch.Reset()
	t.cache.clear()
	return t, nil
}

// Insert - add a key that must not already exist
func (t *transaction) Insert(handle *PoolHandle, key []byte, value []byte) error {
	found, err := t.Has(handle, key)
	if nil != err {
		return err
	}
	if found {
		return fault.ErrKeyExists
	}
	t.Put(handle, key, value)
	return nil
}

// Put - add or replace a key
func (t *transaction) Put(handle *PoolHandle, key []byte, value []byte) {
	t.Lock()
	defer t.Unlock()

	prefixedKey := handle.prefixKey(key)
	stored := make([]byte, len(value))
	copy(stored, value)

	t.batch.Put(prefixedKey, stored)
	t.cache.set(dbPut, prefixedKey, stored)
}

// PutN - store a big endian uint64
func (t *transaction) PutN(handle *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	t.Put(handle, key, buffer)
}

// Delete - remove a key
func (t *transaction) Delete(handle *PoolHandle, key []byte) {
	t.Lock()
	defer t.Unlock()

	prefixedKey := handle.prefixKey(key)
	t.batch.Delete(prefixedKey)
	t.cache.set(dbDelete, prefixedKey, nil)
}

// Get - read through pending writes to committed data
func (t *transaction) Get(handle *PoolHandle, key []byte) ([]byte, error) {
	t.Lock()
	value, pending := t.cache.get(handle.prefixKey(key))
	t.Unlock()

	if pending {
		return value, nil
	}
	return handle.Get(key)
}

// Has - check pending writes then committed data
func (t *transaction) Has(handle *PoolHandle, key []byte) (bool, error) {
	t.Lock()
	value, pending := t.cache.get(handle.prefixKey(key))
	t.Unlock()

	if pending {
		return nil != value, nil
	}
	return handle.Has(key)
}

// Commit - write all pending changes in one atomic batch
//
// the transaction is finished whether or not the write succeeds
func (t *transaction) Commit() error {
	t.Lock()
	defer t.Unlock()

	if !t.inUse {
		return fault.ErrTransactionNotStarted
	}
	defer t.finish()

	t.store.Lock()
	defer t.store.Unlock()

	if nil == t.store.db {
		return fault.ErrNotInitialised
	}
	return t.store.db.Write(t.batch, &ldb_opt.WriteOptions{Sync: true})
}

// Abort - discard all pending changes
func (t *transaction) Abort() {
	t.Lock()
	defer t.Unlock()

	if t.inUse {
		t.finish()
	}
}

func (t *transaction) finish() {
	t.batch.Reset()
	t.cache.clear()
	t.inUse = false
}
