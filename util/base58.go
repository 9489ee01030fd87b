// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/mr-tron/base58"
)

// ToBase58 - encode bytes as Base58 text
func ToBase58(buffer []byte) string {
	return base58.Encode(buffer)
}

// FromBase58 - decode Base58 text, returns nil on invalid input
func FromBase58(s string) []byte {
	buffer, err := base58.Decode(s)
	if nil != err {
		return nil
	}
	return buffer
}
