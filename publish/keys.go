// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/shieldd/fault"
	"github.com/bitmark-inc/shieldd/util"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
)

// MakeKeyPair - create a curve key pair and write it to two files
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) || util.EnsureFileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	// keys are returned in Z85 encoding
	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	publicText := taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	privateText := taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	err = ioutil.WriteFile(publicKeyFileName, []byte(publicText), 0666)
	if nil != err {
		return err
	}
	err = ioutil.WriteFile(privateKeyFileName, []byte(privateText), 0600)
	if nil != err {
		os.Remove(publicKeyFileName)
		return err
	}
	return nil
}

// ReadPrivateKeyFile - 32 byte private key from a tagged hex file
func ReadPrivateKeyFile(fileName string) ([]byte, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	key, private, err := ParseKey(string(data))
	if nil != err {
		return nil, err
	}
	if !private {
		return nil, fault.ErrInvalidPrivateKeyFile
	}
	return key, nil
}

// ReadPublicKeyFile - 32 byte public key from a tagged hex file
func ReadPublicKeyFile(fileName string) ([]byte, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	key, private, err := ParseKey(string(data))
	if nil != err {
		return nil, err
	}
	if private {
		return nil, fault.ErrInvalidPublicKeyFile
	}
	return key, nil
}

// ParseKey - decode a tagged key, second result is true for a private key
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)

	private := false
	switch {
	case strings.HasPrefix(s, taggedPrivate):
		private = true
		s = s[len(taggedPrivate):]
	case strings.HasPrefix(s, taggedPublic):
		s = s[len(taggedPublic):]
	default:
		return nil, false, fault.ErrInvalidPublicKeyFile
	}

	key, err := hex.DecodeString(s)
	if nil != err {
		return nil, false, err
	}
	if keyLength != len(key) {
		if private {
			return nil, false, fault.ErrInvalidPrivateKeyFile
		}
		return nil, false, fault.ErrInvalidPublicKeyFile
	}
	return key, private, nil
}
