// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/bitmark-inc/shieldd/fault"
)

// TreeDepth - levels between a leaf and the root of the note commitment tree
const TreeDepth = 32

// MaximumLeaves - capacity of a tree of TreeDepth
const MaximumLeaves = uint64(1) << TreeDepth

// roots of empty subtrees for each level
var zeroes [TreeDepth + 1]Digest

func init() {
	for h := 0; h < TreeDepth; h += 1 {
		zeroes[h+1] = hashPair(zeroes[h], zeroes[h])
	}
}

// Tree - append-only note commitment tree
//
// only the frontier is kept: branch[h] holds the left sibling
// at level h that is still waiting for its right partner
type Tree struct {
	size   uint64
	branch [TreeDepth]Digest
}

// packed form of the tree
type packedTree struct {
	Size   uint64
	Branch []Digest
}

// NewTree - an empty tree
func NewTree() *Tree {
	return &Tree{}
}

// Size - number of leaves appended
func (t *Tree) Size() uint64 {
	return t.size
}

// Append - add a leaf and return its position
func (t *Tree) Append(leaf Digest) (uint64, error) {
	if t.size >= MaximumLeaves {
		return 0, fault.ErrTreeFull
	}

	position := t.size
	t.size += 1

	node := leaf
	s := t.size
	for h := 0; h < TreeDepth; h += 1 {
		if 1 == s&1 {
			t.branch[h] = node
			return position, nil
		}
		node = hashPair(t.branch[h], node)
		s >>= 1
	}

	// only reachable when the tree is exactly full
	return position, nil
}

// Root - current root, empty positions count as zero leaves
func (t *Tree) Root() Digest {
	node := Digest{}
	s := t.size
	for h := 0; h < TreeDepth; h += 1 {
		if 1 == s&1 {
			node = hashPair(t.branch[h], node)
		} else {
			node = hashPair(node, zeroes[h])
		}
		s >>= 1
	}
	return node
}

// Clone - independent copy
func (t *Tree) Clone() *Tree {
	c := *t
	return &c
}

// Pack - serialise the frontier
func (t *Tree) Pack() ([]byte, error) {
	return rlp.EncodeToBytes(packedTree{
		Size:   t.size,
		Branch: t.branch[:],
	})
}

// UnpackTree - restore a tree from its packed frontier
func UnpackTree(buffer []byte) (*Tree, error) {
	p := packedTree{}
	err := rlp.DecodeBytes(buffer, &p)
	if nil != err {
		return nil, err
	}
	if TreeDepth != len(p.Branch) || p.Size > MaximumLeaves {
		return nil, fault.ErrInvalidNoteCommitmentTree
	}

	t := &Tree{size: p.Size}
	copy(t.branch[:], p.Branch)
	return t, nil
}
