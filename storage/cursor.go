// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/shieldd/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	pool     *PoolHandle
	maxRange ldb_util.Range
}

// NewFetchCursor - initialise a cursor to the start of a key range
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool: p,
		maxRange: ldb_util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		},
	}
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = cursor.pool.prefixKey(key)
	return cursor
}

// Prefix - restrict cursor to the keys beginning with prefix
func (cursor *FetchCursor) Prefix(prefix []byte) *FetchCursor {
	cursor.maxRange = *ldb_util.BytesPrefix(cursor.pool.prefixKey(prefix))
	return cursor
}

// Fetch - return some elements starting from the current position
// and advance the cursor past them
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.ErrInvalidCursor
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.scan(func(e Element) bool {
		results = append(results, e)
		return len(results) < count
	})

	if n := len(results); n > 0 {
		// next start is the smallest key after the last one returned
		next := cursor.pool.prefixKey(results[n-1].Key)
		cursor.maxRange.Start = append(next, 0x00)
	}
	return results, err
}

// Map - run a function on all elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	if nil == cursor {
		return fault.ErrInvalidCursor
	}

	var err error
	scanErr := cursor.scan(func(e Element) bool {
		err = f(e.Key, e.Value)
		return nil == err
	})
	if nil != err {
		return err
	}
	return scanErr
}

// iterate the range while f returns true
func (cursor *FetchCursor) scan(f func(e Element) bool) error {
	store := cursor.pool.store
	store.RLock()
	defer store.RUnlock()

	if nil == store.db {
		return fault.ErrNotInitialised
	}

	iter := store.db.NewIterator(&cursor.maxRange, nil)
	for iter.Next() {
		if !f(element(iter)) {
			break
		}
	}
	iter.Release()
	return iter.Error()
}
