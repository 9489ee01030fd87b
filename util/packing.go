// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/bitmark-inc/shieldd/fault"
)

// maximum length accepted for a length-prefixed field
const maxFieldLength = 1 << 20

// AppendUint64 - append a Varint64 to buffer
func AppendUint64(buffer []byte, value uint64) []byte {
	return append(buffer, ToVarint64(value)...)
}

// AppendBytes - append a Varint64(length) prefixed byte field
func AppendBytes(buffer []byte, data []byte) []byte {
	buffer = append(buffer, ToVarint64(uint64(len(data)))...)
	return append(buffer, data...)
}

// AppendString - append a Varint64(length) prefixed string field
func AppendString(buffer []byte, s string) []byte {
	return AppendBytes(buffer, []byte(s))
}

// Unpacker - sequential reader for packed records
//
// the first failure is sticky: later reads return zero values and
// Err reports the original failure
type Unpacker struct {
	buffer []byte
	n      int
	err    error
}

// NewUnpacker - start reading at the beginning of a record
func NewUnpacker(buffer []byte) *Unpacker {
	return &Unpacker{buffer: buffer}
}

// Uint64 - read a Varint64
func (u *Unpacker) Uint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, count := FromVarint64(u.buffer[u.n:])
	if 0 == count {
		u.err = fault.ErrTruncatedRecord
		return 0
	}
	u.n += count
	return value
}

// Bytes - read a Varint64(length) prefixed field, the result is a copy
func (u *Unpacker) Bytes() []byte {
	length := u.Uint64()
	if nil != u.err {
		return nil
	}
	if length > maxFieldLength || uint64(len(u.buffer)-u.n) < length {
		u.err = fault.ErrTruncatedRecord
		return nil
	}
	data := make([]byte, length)
	copy(data, u.buffer[u.n:u.n+int(length)])
	u.n += int(length)
	return data
}

// String - read a Varint64(length) prefixed string
func (u *Unpacker) String() string {
	return string(u.Bytes())
}

// Fixed - read a length-prefixed field that must fill dst exactly
func (u *Unpacker) Fixed(dst []byte) {
	data := u.Bytes()
	if nil != u.err {
		return
	}
	if len(data) != len(dst) {
		u.err = fault.ErrKeyLength
		return
	}
	copy(dst, data)
}

// Offset - number of bytes consumed so far
func (u *Unpacker) Offset() int {
	return u.n
}

// Remaining - true if unread bytes are left
func (u *Unpacker) Remaining() bool {
	return u.n < len(u.buffer)
}

// Err - the first failure encountered
func (u *Unpacker) Err() error {
	return u.err
}
