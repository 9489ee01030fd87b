// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package note

import (
	"bytes"
	"encoding/hex"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/merkle"
)

// byte sizes of note fields
const (
	CommitmentLength   = 32
	NullifierLength    = 32
	EphemeralKeyLength = 32
	CiphertextBytes    = 132
)

// Commitment - binding commitment to a note, the leaf of the note commitment tree
type Commitment [CommitmentLength]byte

// Nullifier - revealed when a note is spent
type Nullifier [NullifierLength]byte

// EphemeralKey - key agreement public key for decrypting a note
type EphemeralKey [EphemeralKeyLength]byte

// Ciphertext - encrypted note contents
type Ciphertext [CiphertextBytes]byte

// Data - ciphertext and provenance of one shielded output
type Data struct {
	EphemeralKey  EphemeralKey  `json:"ephemeralKey"`
	EncryptedNote Ciphertext    `json:"encryptedNote"`
	TransactionID merkle.Digest `json:"transactionId"`
}

// PositionedData - note data with its position in the note commitment tree
type PositionedData struct {
	Position uint64 `json:"position"`
	Data     Data   `json:"data"`
}

// Leaf - tree leaf for the commitment
func (c Commitment) Leaf() merkle.Digest {
	return merkle.Digest(c)
}

// Less - byte order, used to make block note order deterministic
func (c Commitment) Less(other Commitment) bool {
	return bytes.Compare(c[:], other[:]) < 0
}

// String - hex
func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalText - hex text
func (c Commitment) MarshalText() ([]byte, error) {
	return toHex(c[:]), nil
}

// UnmarshalText - from hex text
func (c *Commitment) UnmarshalText(s []byte) error {
	return fromHex(c[:], s)
}

// Less - byte order
func (n Nullifier) Less(other Nullifier) bool {
	return bytes.Compare(n[:], other[:]) < 0
}

// String - hex
func (n Nullifier) String() string {
	return hex.EncodeToString(n[:])
}

// MarshalText - hex text
func (n Nullifier) MarshalText() ([]byte, error) {
	return toHex(n[:]), nil
}

// UnmarshalText - from hex text
func (n *Nullifier) UnmarshalText(s []byte) error {
	return fromHex(n[:], s)
}

// MarshalText - hex text
func (k EphemeralKey) MarshalText() ([]byte, error) {
	return toHex(k[:]), nil
}

// UnmarshalText - from hex text
func (k *EphemeralKey) UnmarshalText(s []byte) error {
	return fromHex(k[:], s)
}

// MarshalText - hex text
func (c Ciphertext) MarshalText() ([]byte, error) {
	return toHex(c[:]), nil
}

// UnmarshalText - from hex text
func (c *Ciphertext) UnmarshalText(s []byte) error {
	return fromHex(c[:], s)
}

func toHex(b []byte) []byte {
	buffer := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(buffer, b)
	return buffer
}

// decode hex that must exactly fill dst
func fromHex(dst []byte, s []byte) error {
	if len(dst) != hex.DecodedLen(len(s)) {
		return fault.ErrKeyLength
	}
	_, err := hex.Decode(dst, s)
	return err
}
