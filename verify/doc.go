// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package verify - transaction verification
//
// stateless verification checks signatures and proofs using only the
// transaction and an injected set of cryptographic capabilities; it
// touches no chain state and may run concurrently.
//
// stateful verification (root freshness, nullifier non-existence,
// validator lookups) is supplied from outside through the Stateful
// interface against a read only Chain view.
package verify
