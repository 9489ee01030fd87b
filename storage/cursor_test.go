// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/shieldd/storage"
)

// a string data item
type stringElement struct {
	key   string
	value string
}

// make an element array
func makeElements(input []stringElement) []storage.Element {
	output := make([]storage.Element, 0, len(input))
	for _, e := range input {
		output = append(output, storage.Element{
			Key:   []byte(e.key),
			Value: []byte(e.value),
		})
	}
	return output
}

// this is the expected order
var expectedElements = makeElements([]stringElement{
	{"key-five", "data-five"},
	{"key-four", "data-four"},
	{"key-one", "data-one"},
	{"key-seven", "data-seven"},
	{"key-six", "data-six"},
	{"key-three", "data-three"},
	{"key-two", "data-two"},
	{"other-one", "data-eight"},
})

func fill(t *testing.T, s *storage.Store, pool *storage.PoolHandle) {
	trx, err := s.Begin()
	assert.Nil(t, err, "begin")

	// insert in reverse to show ordering comes from the keys
	for i := len(expectedElements) - 1; i >= 0; i -= 1 {
		trx.Put(pool, expectedElements[i].Key, expectedElements[i].Value)
	}

	// a neighbouring pool must not leak into the range
	trx.Put(s.Pool.Blocks, []byte("key-zzz"), []byte("other pool"))
	assert.Nil(t, trx.Commit(), "commit")
}

func TestFetchCursor(t *testing.T) {
	s := setup(t)
	defer s.Close()
	fill(t, s, s.Pool.Assets)

	cursor := s.Pool.Assets.NewFetchCursor()

	first, err := cursor.Fetch(3)
	assert.Nil(t, err)
	assert.Equal(t, expectedElements[:3], first)

	rest, err := cursor.Fetch(100)
	assert.Nil(t, err)
	assert.Equal(t, expectedElements[3:], rest)

	none, err := cursor.Fetch(1)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(none))
}

func TestFetchCursorPrefix(t *testing.T) {
	s := setup(t)
	defer s.Close()
	fill(t, s, s.Pool.Assets)

	keys := []string{}
	err := s.Pool.Assets.NewFetchCursor().Prefix([]byte("key-s")).Map(func(key []byte, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"key-seven", "key-six"}, keys)
}

func TestFetchCursorSeek(t *testing.T) {
	s := setup(t)
	defer s.Close()
	fill(t, s, s.Pool.Assets)

	elements, err := s.Pool.Assets.NewFetchCursor().Seek([]byte("key-t")).Fetch(10)
	assert.Nil(t, err)
	assert.Equal(t, expectedElements[5:], elements)
}

func TestLastElements(t *testing.T) {
	s := setup(t)
	defer s.Close()
	fill(t, s, s.Pool.Assets)

	last, found, err := s.Pool.Assets.LastElement()
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, expectedElements[7], last)

	before, found, err := s.Pool.Assets.LastElementBefore([]byte("key-one"))
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, expectedElements[1], before)

	_, found, err = s.Pool.Assets.LastElementBefore([]byte("key-five"))
	assert.Nil(t, err)
	assert.False(t, found, "nothing before the first key")

	tail, err := s.Pool.Assets.LastElements(2)
	assert.Nil(t, err)
	assert.Equal(t, []storage.Element{expectedElements[7], expectedElements[6]}, tail)

	_, found, err = s.Pool.Validators.LastElement()
	assert.Nil(t, err)
	assert.False(t, found, "empty pool")
}
