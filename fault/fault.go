// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type ProofError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised           = ExistsError("already initialised")
	ErrAssetNotFound                = NotFoundError("asset not found")
	ErrBindingSignatureInvalid      = InvalidError("binding signature failed to verify")
	ErrBlockNotFound                = NotFoundError("block not found")
	ErrDoubleSpendWithinTransaction = InvalidError("nullifier revealed twice in one transaction")
	ErrGenesisAlreadyCommitted      = ExistsError("genesis configuration already committed")
	ErrGenesisNotFound              = NotFoundError("genesis configuration not found")
	ErrInvalidAllocation            = InvalidError("genesis allocation is invalid")
	ErrInvalidBlockHeight           = InvalidError("block height must be set")
	ErrInvalidBlockEpoch            = InvalidError("block epoch must be set")
	ErrInvalidChainID               = InvalidError("chain id must not be empty")
	ErrInvalidConfiguration         = InvalidError("configuration must return a table")
	ErrInvalidCount                 = InvalidError("invalid count")
	ErrInvalidCursor                = InvalidError("invalid cursor")
	ErrInvalidDatabaseVersion       = InvalidError("invalid database version")
	ErrInvalidEpochDuration         = InvalidError("epoch duration must be positive")
	ErrInvalidLoggerChannel         = InvalidError("invalid logger channel")
	ErrInvalidNoteCommitmentTree    = InvalidError("note commitment tree is missing")
	ErrInvalidPoolPrefix            = InvalidError("invalid pool prefix")
	ErrInvalidPrivateKeyFile        = InvalidError("invalid private key file")
	ErrInvalidPublicKeyFile         = InvalidError("invalid public key file")
	ErrInvalidRateBps               = InvalidError("funding stream rate exceeds 10000 basis points")
	ErrInvalidStructPointer         = InvalidError("invalid struct pointer")
	ErrInvalidValidatorState        = InvalidError("invalid validator state")
	ErrKeyExists                    = ExistsError("key already exists")
	ErrKeyFileAlreadyExists         = ExistsError("key file already exists")
	ErrKeyLength                    = LengthError("key length is invalid")
	ErrMissingBroadcast             = InvalidError("no broadcast address configured")
	ErrNoteNotFound                 = NotFoundError("note not found")
	ErrNotInitialised               = NotFoundError("not initialised")
	ErrNullifierAlreadySpent        = ExistsError("nullifier already spent")
	ErrOutOfSequenceBlock           = InvalidError("block height is out of sequence")
	ErrOutputProofInvalid           = ProofError("output proof did not verify")
	ErrRateNotFound                 = NotFoundError("rate data not found")
	ErrSpendAuthInvalid             = InvalidError("spend auth signature failed to verify")
	ErrSpendProofInvalid            = ProofError("spend proof did not verify")
	ErrTransactionInUse             = ProcessError("storage transaction already in use")
	ErrTransactionNotStarted        = ProcessError("storage transaction not started")
	ErrTreeFull                     = LengthError("note commitment tree is full")
	ErrTreeNodeNotFound             = NotFoundError("state tree node not found")
	ErrTreeRootNotFound             = NotFoundError("state tree root not found")
	ErrTruncatedRecord              = RecordError("record is truncated")
	ErrUnknownActionTag             = RecordError("unknown action tag")
	ErrUnsupportedAction            = InvalidError("unsupported action")
	ErrValidatorNotFound            = NotFoundError("validator not found")
	ErrWrongSignatureLength         = LengthError("signature length is invalid")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e ProofError) Error() string    { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrProof(e error) bool    { _, ok := e.(ProofError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
