// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/shieldd/fault"
)

func TestTransactionCommit(t *testing.T) {
	s := setup(t)
	defer s.Close()

	trx, err := s.Begin()
	assert.Nil(t, err, "begin")

	pool := s.Pool.Nullifiers
	trx.PutN(pool, []byte("nf-1"), 7)

	// pending write visible to the transaction only
	value, err := trx.Get(pool, []byte("nf-1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7}, value)

	committed, err := pool.Get([]byte("nf-1"))
	assert.Nil(t, err)
	assert.Nil(t, committed, "visible before commit")

	assert.Nil(t, trx.Commit(), "commit")

	n, found, err := pool.GetN([]byte("nf-1"))
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(7), n)
}

func TestTransactionAbort(t *testing.T) {
	s := setup(t)
	defer s.Close()

	trx, err := s.Begin()
	assert.Nil(t, err, "begin")
	trx.Put(s.Pool.Notes, []byte("cm"), []byte("note"))
	trx.Abort()

	found, err := s.Pool.Notes.Has([]byte("cm"))
	assert.Nil(t, err)
	assert.False(t, found, "aborted write persisted")

	assert.Equal(t, fault.ErrTransactionNotStarted, trx.Commit())
}

func TestTransactionSingleWriter(t *testing.T) {
	s := setup(t)
	defer s.Close()

	trx, err := s.Begin()
	assert.Nil(t, err, "begin")

	_, err = s.Begin()
	assert.Equal(t, fault.ErrTransactionInUse, err)

	trx.Abort()

	trx, err = s.Begin()
	assert.Nil(t, err, "begin after abort")
	trx.Abort()
}

func TestTransactionInsertUnique(t *testing.T) {
	s := setup(t)
	defer s.Close()

	pool := s.Pool.Nullifiers

	trx, err := s.Begin()
	assert.Nil(t, err)
	assert.Nil(t, trx.Insert(pool, []byte("nf"), []byte{1}))

	// duplicate inside the same transaction
	assert.Equal(t, fault.ErrKeyExists, trx.Insert(pool, []byte("nf"), []byte{2}))
	assert.Nil(t, trx.Commit())

	// duplicate against committed data
	trx, err = s.Begin()
	assert.Nil(t, err)
	assert.Equal(t, fault.ErrKeyExists, trx.Insert(pool, []byte("nf"), []byte{3}))

	// a pending delete frees the key
	trx.Delete(pool, []byte("nf"))
	found, err := trx.Has(pool, []byte("nf"))
	assert.Nil(t, err)
	assert.False(t, found)
	assert.Nil(t, trx.Insert(pool, []byte("nf"), []byte{4}))
	assert.Nil(t, trx.Commit())

	value, err := pool.Get([]byte("nf"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{4}, value)
}

func TestTransactionPutReplaces(t *testing.T) {
	s := setup(t)
	defer s.Close()

	pool := s.Pool.Assets

	trx, err := s.Begin()
	assert.Nil(t, err)
	trx.Put(pool, []byte("id"), []byte("one"))
	trx.Put(pool, []byte("id"), []byte("two"))
	assert.Nil(t, trx.Commit())

	value, err := pool.Get([]byte("id"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), value)
}
