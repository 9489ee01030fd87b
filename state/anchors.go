// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"

	"github.com/bitmark-inc/shieldd/merkle"
)

// RecentAnchorsLimit - number of note commitment tree roots a spend may
// still prove against
const RecentAnchorsLimit = 64

// newest first list of recent roots
type anchorsWindow struct {
	limit int
	roots *doublylinkedlist.List
}

// roots must already be newest first
func newAnchorsWindow(limit int, roots []merkle.Digest) *anchorsWindow {
	w := &anchorsWindow{
		limit: limit,
		roots: doublylinkedlist.New(),
	}
	for _, root := range roots {
		w.roots.Append(root)
	}
	w.trim()
	return w
}

func (w *anchorsWindow) clone() *anchorsWindow {
	c := &anchorsWindow{
		limit: w.limit,
		roots: doublylinkedlist.New(w.roots.Values()...),
	}
	return c
}

// prepend, then drop from the tail down to the limit
func (w *anchorsWindow) push(root merkle.Digest) {
	w.roots.Prepend(root)
	w.trim()
}

func (w *anchorsWindow) trim() {
	for w.roots.Size() > w.limit {
		w.roots.Remove(w.roots.Size() - 1)
	}
}

func (w *anchorsWindow) size() int {
	return w.roots.Size()
}

// newest first copy
func (w *anchorsWindow) list() []merkle.Digest {
	result := make([]merkle.Digest, 0, w.roots.Size())
	it := w.roots.Iterator()
	for it.Next() {
		result = append(result, it.Value().(merkle.Digest))
	}
	return result
}
