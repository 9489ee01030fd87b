// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/storage"
)

const (
	testingDirName = "testing"
)

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

// configure for testing
func setup(t *testing.T) *storage.Store {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return s
}

func TestAllPoolsInitialised(t *testing.T) {
	s := setup(t)
	defer s.Close()

	pools := []*storage.PoolHandle{
		s.Pool.Blobs,
		s.Pool.Blocks,
		s.Pool.Notes,
		s.Pool.Nullifiers,
		s.Pool.DelegationChanges,
		s.Pool.Assets,
		s.Pool.Validators,
		s.Pool.FundingStreams,
		s.Pool.BaseRates,
		s.Pool.ValidatorRates,
		s.Pool.TreeNodes,
		s.Pool.TreeRoots,
	}
	for i, p := range pools {
		assert.NotNil(t, p, "pool: %d", i)
	}
}

func TestReopen(t *testing.T) {
	name := filepath.Join(testingDirName, "reopen.leveldb")

	s, err := storage.Open(name, storage.ReadWrite)
	assert.Nil(t, err, "open")

	trx, err := s.Begin()
	assert.Nil(t, err, "begin")
	trx.Put(s.Pool.Blobs, []byte("gc"), []byte("genesis"))
	assert.Nil(t, trx.Commit(), "commit")
	s.Close()

	s, err = storage.Open(name, storage.ReadOnly)
	assert.Nil(t, err, "reopen")
	defer s.Close()

	value, err := s.Pool.Blobs.Get([]byte("gc"))
	assert.Nil(t, err, "get")
	assert.Equal(t, []byte("genesis"), value)
}

func TestReadOnlyMissing(t *testing.T) {
	_, err := storage.Open(filepath.Join(testingDirName, "missing.leveldb"), storage.ReadOnly)
	assert.NotNil(t, err, "read only open of a missing database")
}

func TestClosedStore(t *testing.T) {
	s := setup(t)
	s.Close()

	_, err := s.Pool.Blobs.Get([]byte("gc"))
	assert.Equal(t, fault.ErrNotInitialised, err)
}
