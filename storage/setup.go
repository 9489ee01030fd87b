// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/shieldd/fault"
)

// Pools - the chain state tables
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Blobs             *PoolHandle `prefix:"G"`
	Blocks            *PoolHandle `prefix:"B"`
	Notes             *PoolHandle `prefix:"N"`
	Nullifiers        *PoolHandle `prefix:"X"`
	DelegationChanges *PoolHandle `prefix:"D"`
	Assets            *PoolHandle `prefix:"A"`
	Validators        *PoolHandle `prefix:"V"`
	FundingStreams    *PoolHandle `prefix:"F"`
	BaseRates         *PoolHandle `prefix:"R"`
	ValidatorRates    *PoolHandle `prefix:"S"`
	TreeNodes         *PoolHandle `prefix:"T"`
	TreeRoots         *PoolHandle `prefix:"U"`
}

// Store - an open database with its pools
//
// only one write transaction may be open at a time
type Store struct {
	sync.RWMutex
	log  *logger.L
	db   *leveldb.DB
	trx  *transaction
	Pool Pools
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Open - open (or create) the database
func Open(database string, readOnly bool) (*Store, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(database, opt)
	if nil != err {
		return nil, err
	}
	return newStore(db, readOnly)
}

// OpenMemory - a database held entirely in memory
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newStore(db, ReadWrite)
}

func newStore(db *leveldb.DB, readOnly bool) (*Store, error) {
	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	log := logger.New("storage")

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}

	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.ErrInvalidDatabaseVersion
	}

	if 0 == version && !readOnly {
		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			return nil, err
		}
	} else if version != currentDBVersion {
		log.Criticalf("database version: %d  expected: %d", version, currentDBVersion)
		return nil, fault.ErrInvalidDatabaseVersion
	}

	s := &Store{
		log: log,
		db:  db,
	}
	s.trx = newTransaction(s)

	err = s.initialisePools()
	if nil != err {
		return nil, err
	}

	ok = true // prevent db close
	return s, nil
}

// fill in every pool from its prefix tag
func (s *Store) initialisePools() error {

	// this will be a struct type
	poolType := reflect.TypeOf(s.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&s.Pool).Elem()

	seen := make(map[byte]struct{})

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			s.log.Criticalf("pool: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
			return fault.ErrInvalidPoolPrefix
		}

		prefix := prefixTag[0]
		if _, ok := seen[prefix]; ok {
			s.log.Criticalf("pool: %s has duplicate prefix: %q", fieldInfo.Name, prefixTag)
			return fault.ErrInvalidPoolPrefix
		}
		seen[prefix] = struct{}{}

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			store:  s,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// Close - close the database connection
func (s *Store) Close() {
	s.Lock()
	defer s.Unlock()

	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

// return the version number, 0 for a new database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fault.ErrInvalidDatabaseVersion
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
