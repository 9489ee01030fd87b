// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package statetree - versioned authenticated key value store
//
// a Merkle Patricia trie whose nodes are content addressed, so every
// committed root remains readable and each version is simply a root.
// Keys are domain separated hashes of a Key namespace.
//
// Updates are computed against committed nodes only and returned as a
// NodeBatch; nothing is written until the batch is placed into a
// storage transaction with WriteNodeBatch and that transaction commits.
package statetree
