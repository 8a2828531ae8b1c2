// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/fault"
)

// cache operation markers
type cacheOp int

const (
	dbPut cacheOp = iota
	dbDelete
)

type cacheEntry struct {
	op    cacheOp
	value []byte
}

// Transaction - a batch of writes committed atomically
//
// reads inside the transaction see its own uncommitted writes; Abort
// discards everything including those reads' backing entries
type Transaction struct {
	sync.Mutex
	batch *leveldb.Batch
	cache map[string]cacheEntry
	inUse bool
}

// NewTransaction - create an unstarted transaction
func NewTransaction() *Transaction {
	return &Transaction{
		batch: new(leveldb.Batch),
		cache: make(map[string]cacheEntry),
	}
}

// Begin - mark the transaction in use
func (trx *Transaction) Begin() error {
	trx.Lock()
	defer trx.Unlock()

	if trx.inUse {
		return fault.ErrTransactionInUse
	}
	trx.inUse = true
	return nil
}

// Put - stage a key/value pair
func (trx *Transaction) Put(p *PoolHandle, key []byte, value []byte) {
	prefixed := p.prefixKey(key)
	trx.cache[string(prefixed)] = cacheEntry{op: dbPut, value: value}
	trx.batch.Put(prefixed, value)
}

// PutN - stage a big endian uint64 value
func (trx *Transaction) PutN(p *PoolHandle, key []byte, n uint64) {
	trx.Put(p, key, uint64AsBytes(n))
}

// Delete - stage a key removal
func (trx *Transaction) Delete(p *PoolHandle, key []byte) {
	prefixed := p.prefixKey(key)
	trx.cache[string(prefixed)] = cacheEntry{op: dbDelete}
	trx.batch.Delete(prefixed)
}

// Get - read through the cache then the committed state
func (trx *Transaction) Get(p *PoolHandle, key []byte) []byte {
	if entry, ok := trx.cache[string(p.prefixKey(key))]; ok {
		if dbDelete == entry.op {
			return nil
		}
		return entry.value
	}
	return p.Get(key)
}

// GetN - read a staged or committed uint64
func (trx *Transaction) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	buffer := trx.Get(p, key)
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panicf("transaction.GetN truncated record for: %x: %x", key, buffer)
	}
	return binary.BigEndian.Uint64(buffer[:8]), true
}

// Has - check staged and committed state
func (trx *Transaction) Has(p *PoolHandle, key []byte) bool {
	if entry, ok := trx.cache[string(p.prefixKey(key))]; ok {
		return dbPut == entry.op
	}
	return p.Has(key)
}

// Commit - write the whole batch atomically
func (trx *Transaction) Commit() error {
	trx.Lock()
	defer trx.Unlock()

	poolData.RLock()
	defer poolData.RUnlock()

	if nil == poolData.db {
		return fault.ErrNotInitialised
	}
	err := poolData.db.Write(trx.batch, nil)
	if nil != err {
		return err
	}
	trx.reset()
	return nil
}

// Abort - discard all staged writes
func (trx *Transaction) Abort() {
	trx.Lock()
	defer trx.Unlock()

	trx.reset()
}

// callers hold the lock
func (trx *Transaction) reset() {
	trx.batch.Reset()
	trx.cache = make(map[string]cacheEntry)
	trx.inUse = false
}
