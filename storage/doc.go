// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the abstract keyed state store
//
// maintains a LevelDB database split into prefixed pools, one pool per
// record kind.  every state mutating operation runs inside a single
// Transaction: writes accumulate in a batch with a read-through cache
// so the operation sees its own writes, and the batch is committed
// atomically at the end of the call or discarded entirely on any error
package storage
