// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/shieldd/fault"
)

// PoolHandle - access to one table of committed data
type PoolHandle struct {
	prefix byte
	limit  []byte
	store  *Store
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// copy out an iterator entry with the prefix stripped
//
// contents of the iterator slices must not be modified, and are
// only valid until the next call to Next
func element(iter iterator.Iterator) Element {
	key := iter.Key()
	value := iter.Value()
	dataKey := make([]byte, len(key)-1) // strip the prefix
	copy(dataKey, key[1:])              // ...
	dataValue := make([]byte, len(value))
	copy(dataValue, value)
	return Element{
		Key:   dataKey,
		Value: dataValue,
	}
}

// Get - read a value for a given key
//
// returns nil if the key is not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.store.RLock()
	defer p.store.RUnlock()

	if nil == p.store.db {
		return nil, fault.ErrNotInitialised
	}
	value, err := p.store.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool, error) {
	buffer, err := p.Get(key)
	if nil != err || nil == buffer {
		return 0, false, err
	}
	if len(buffer) < 8 {
		return 0, false, fault.ErrTruncatedRecord
	}
	return binary.BigEndian.Uint64(buffer[:8]), true, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	p.store.RLock()
	defer p.store.RUnlock()

	if nil == p.store.db {
		return false, fault.ErrNotInitialised
	}
	return p.store.db.Has(p.prefixKey(key), nil)
}

// LastElement - get the last element in a pool
func (p *PoolHandle) LastElement() (Element, bool, error) {
	return p.lastBefore(p.limit)
}

// LastElementBefore - get the element with the greatest key strictly less than key
func (p *PoolHandle) LastElementBefore(key []byte) (Element, bool, error) {
	return p.lastBefore(p.prefixKey(key))
}

func (p *PoolHandle) lastBefore(limit []byte) (Element, bool, error) {
	maxRange := ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: limit,            // Limit of key range, excluded from the range
	}

	p.store.RLock()
	defer p.store.RUnlock()

	if nil == p.store.db {
		return Element{}, false, fault.ErrNotInitialised
	}

	iter := p.store.db.NewIterator(&maxRange, nil)
	found := false
	result := Element{}
	if iter.Last() {
		result = element(iter)
		found = true
	}
	iter.Release()
	return result, found, iter.Error()
}

// LastElements - up to count elements from the end of the pool, last first
func (p *PoolHandle) LastElements(count int) ([]Element, error) {
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	maxRange := ldb_util.Range{
		Start: []byte{p.prefix},
		Limit: p.limit,
	}

	p.store.RLock()
	defer p.store.RUnlock()

	if nil == p.store.db {
		return nil, fault.ErrNotInitialised
	}

	iter := p.store.db.NewIterator(&maxRange, nil)
	results := make([]Element, 0, count)
	for ok := iter.Last(); ok && len(results) < count; ok = iter.Prev() {
		results = append(results, element(iter))
	}
	iter.Release()
	return results, iter.Error()
}
