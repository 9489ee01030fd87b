// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

// Version - set by the linker:
//   go build -ldflags "-X github.com/bitmark-inc/shieldd/version.Version=M.N" ./...
var Version = "zero" // do not change this value
