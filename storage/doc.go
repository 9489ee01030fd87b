// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk chain state
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. height       = big endian uint64 (8 bytes)
// 4. epoch        = big endian uint64 (8 bytes)
// 5. identity     = validator identity key (32 bytes)
// 6. commitment   = note commitment (32 bytes)
// 7. nullifier    = note nullifier (32 bytes)
// 8. records      = RLP encoded structures
//
// Blobs:
//
//   G ++ "gc"                      - genesis configuration (JSON)
//   G ++ "nct"                     - packed note commitment tree frontier
//
// Blocks:
//
//   B ++ height                    - data: nct anchor ++ app hash
//
// Notes:
//
//   N ++ commitment                - data: note record
//   X ++ nullifier                 - data: height of spend (unique)
//
// Staking:
//
//   D ++ epoch ++ identity ++ height   - data: delegation delta (two's complement BE8)
//   V ++ identity                      - data: validator record
//   F ++ identity ++ index (BE4)       - data: funding stream record
//   R ++ epoch                         - data: base rate record (unique)
//   S ++ epoch ++ identity             - data: validator rate record (unique)
//
// Assets:
//
//   A ++ asset id                  - data: denom ++ total supply
//
// Authenticated state tree:
//
//   T ++ node hash                 - data: trie node
//   U ++ version                   - data: root hash
package storage
