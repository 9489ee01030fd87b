// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the file is a Lua chunk that returns a table; most of base Lua is
// available, e.g. os.getenv to pick up environment supplied items and
// arg[0] to find files relative to the configuration itself.
package configuration
