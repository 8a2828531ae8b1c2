// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - represents a prefixed key space inside the database
type PoolHandle struct {
	prefix byte
	limit  []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a value for a given key
//
// returns nil if the record was not found
func (p *PoolHandle) Get(key []byte) []byte {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}
	value, err := poolData.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	buffer := p.Get(key)
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panicf("pool.GetN truncated record for: %x: %x", key, buffer)
	}
	n := binary.BigEndian.Uint64(buffer[:8])
	return n, true
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return false
	}
	value, err := poolData.db.Has(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// uint64AsBytes - big endian encoding shared by PutN/GetN
func uint64AsBytes(n uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, n)
	return buffer
}
