// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

// pending operation kinds
const (
	dbPut = iota
	dbDelete
)

// overlay of uncommitted writes so a transaction can read its own changes
type writeCache struct {
	cache *cache.Cache
}

type cacheData struct {
	op    int
	value []byte
}

func newWriteCache() *writeCache {
	return &writeCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// get returns the pending value and whether the key has a pending operation
// at all; a pending delete reports found with a nil value
func (c *writeCache) get(key []byte) ([]byte, bool) {
	obj, found := c.cache.Get(string(key))
	if !found {
		return nil, false
	}
	data := obj.(cacheData)
	if dbDelete == data.op {
		return nil, true
	}
	return data.value, true
}

func (c *writeCache) set(op int, key []byte, value []byte) {
	c.cache.Set(string(key), cacheData{op: op, value: value}, cache.NoExpiration)
}

func (c *writeCache) clear() {
	c.cache.Flush()
}
