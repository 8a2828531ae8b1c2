// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Identities      *PoolHandle `prefix:"I" description:"identity id → record"`
	IdentityOwners  *PoolHandle `prefix:"i" description:"principal → identity id"`
	IdentityCounter *PoolHandle `prefix:"N" description:"next identity id"`
	DataOwners      *PoolHandle `prefix:"D" description:"data hash → owner identity id"`
	DataLists       *PoolHandle `prefix:"d" description:"identity id ‖ seq → data hash"`
	DataCounts      *PoolHandle `prefix:"c" description:"identity id → hash count"`
	Permissions     *PoolHandle `prefix:"P" description:"data hash ‖ product uid → permission"`
	Products        *PoolHandle `prefix:"R" description:"product uid → record"`
	ProductData     *PoolHandle `prefix:"r" description:"product uid ‖ seq → data hash"`
	ProductCredits  *PoolHandle `prefix:"K" description:"data hash ‖ product uid → credit"`
	ShardConfigs    *PoolHandle `prefix:"S" description:"product uid → share config"`
	ShardBalances   *PoolHandle `prefix:"Q" description:"principal ‖ product uid → quantity"`
	Earnings        *PoolHandle `prefix:"E" description:"product uid → earning ledger"`
	HolderPoints    *PoolHandle `prefix:"H" description:"principal ‖ product uid → last point"`
	ConsumedDigests *PoolHandle `prefix:"U" description:"message digest → consumed marker"`
	AgreementNonces *PoolHandle `prefix:"n" description:"agreement nonce → consumed marker"`
	Agreements      *PoolHandle `prefix:"A" description:"distributor → agreement record"`
	TokenBalances   *PoolHandle `prefix:"T" description:"principal → settlement token balance"`
	TokenAllowances *PoolHandle `prefix:"t" description:"owner ‖ spender → allowance"`
	Listings        *PoolHandle `prefix:"L" description:"seller ‖ product uid → listed price"`
	Proposals       *PoolHandle `prefix:"V" description:"proposal id → record"`
	ProposalCounter *PoolHandle `prefix:"v" description:"next proposal id"`
}

// Pool - the set of exported pools
var Pool pools

// holds the database handle
var poolData struct {
	sync.RWMutex
	db  *leveldb.DB
	log *logger.L
}

// Initialise - open up the database connection
//
// this must be called before any pool is accessed
func Initialise(database string) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.db {
		return fault.ErrAlreadyInitialised
	}

	poolData.log = logger.New("storage")
	poolData.log.Info("starting…")

	db, err := leveldb.OpenFile(database, &ldb_opt.Options{})
	if nil != err {
		poolData.log.Criticalf("cannot open database: %q  error: %s", database, err)
		return err
	}
	poolData.db = db

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write accees by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	// scan each field to locate its prefix tag
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)
		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			logger.Panicf("pool: %v  has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
		}
		newPool := reflect.ValueOf(p)
		poolValue.Field(i).Set(newPool)
	}

	return nil
}

// Finalise - close the database connection
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()

	if nil == poolData.db {
		return
	}
	poolData.db.Close()
	poolData.db = nil
	poolData.log.Info("finished")
	poolData.log.Flush()
}
