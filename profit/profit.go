// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package profit - pooled earnings and shard-weighted withdrawal
//
// deposits accumulate per product in constant time; a holder's cut is
// settled lazily on withdrawal from the earning growth since their
// previous claim, so a second withdrawal with no new deposits yields
// nothing
package profit

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/product"
	"github.com/singnet/rejuve-platform-contracts/shard"
	"github.com/singnet/rejuve-platform-contracts/storage"
	"github.com/singnet/rejuve-platform-contracts/token"
)

var globalData struct {
	sync.RWMutex
	log     *logger.L
	custody account.Account

	initialised bool
}

// Initialise - set the custody account holding undistributed earnings
func Initialise(custody account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	if custody.IsZero() {
		return fault.ErrZeroPrincipal
	}
	globalData.log = logger.New("profit")
	globalData.log.Info("starting…")
	globalData.custody = custody
	globalData.initialised = true
	return nil
}

// Finalise - shut down the distribution engine
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	globalData.log.Flush()
	globalData.initialised = false
	return nil
}

// Deposit - add product earnings to the pool
//
// tokens move from the caller to custody and the product's running
// earning total grows; no per-holder work happens here
func Deposit(caller account.Account, productUID uint64, amount uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}
	if 0 == amount {
		return fault.ErrZeroAmount
	}
	if _, err := product.Get(productUID); nil != err {
		return err
	}

	globalData.RLock()
	custody := globalData.custody
	globalData.RUnlock()

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	if err := token.StageTransferFrom(trx, caller, caller, custody, amount); nil != err {
		trx.Abort()
		return err
	}

	deposited, withdrawn := earnings(trx, productUID)
	trx.Put(storage.Pool.Earnings, uint64Key(productUID), packEarnings(deposited+amount, withdrawn))

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("product %d: deposit of %d", productUID, amount)
	globalData.RUnlock()
	return nil
}

// Withdraw - settle the caller's share of earnings growth
func Withdraw(caller account.Account, productUID uint64) (uint64, error) {
	if err := mode.EnsureRunning(); nil != err {
		return 0, err
	}

	globalData.RLock()
	custody := globalData.custody
	globalData.RUnlock()

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return 0, err
	}

	deposited, withdrawn := earnings(trx, productUID)
	if 0 == deposited {
		trx.Abort()
		return 0, fault.ErrNoProductEarning
	}

	balance := shard.BalanceOf(caller, productUID)
	if 0 == balance {
		trx.Abort()
		return 0, fault.ErrNoShardBalance
	}

	totalShards := shard.TotalShards(productUID)
	if 0 == totalShards {
		trx.Abort()
		return 0, fault.ErrNoShardBalance
	}

	lastPoint, _ := trx.GetN(storage.Pool.HolderPoints, holderKey(productUID, caller))

	percent := balance * 100 / totalShards
	points := percent * 100
	owed := deposited - lastPoint
	amount := points * owed / 10000
	if 0 == amount {
		trx.Abort()
		return 0, fault.ErrNoUserEarning
	}

	if err := token.StageTransfer(trx, custody, caller, amount); nil != err {
		trx.Abort()
		return 0, err
	}

	trx.PutN(storage.Pool.HolderPoints, holderKey(productUID, caller), deposited)
	trx.Put(storage.Pool.Earnings, uint64Key(productUID), packEarnings(deposited, withdrawn+amount))

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return 0, err
	}

	globalData.RLock()
	globalData.log.Infof("product %d: withdrawal of %d", productUID, amount)
	globalData.RUnlock()
	return amount, nil
}

// ProductEarning - total deposited for a product
func ProductEarning(productUID uint64) uint64 {
	deposited, _ := readEarnings(productUID)
	return deposited
}

// TotalWithdrawal - total paid out for a product
func TotalWithdrawal(productUID uint64) uint64 {
	_, withdrawn := readEarnings(productUID)
	return withdrawn
}

// HolderLastPoint - the earning level at the holder's latest claim
func HolderLastPoint(holder account.Account, productUID uint64) uint64 {
	point, _ := storage.Pool.HolderPoints.GetN(holderKey(productUID, holder))
	return point
}

func earnings(trx *storage.Transaction, productUID uint64) (uint64, uint64) {
	return unpackEarnings(trx.Get(storage.Pool.Earnings, uint64Key(productUID)))
}

func readEarnings(productUID uint64) (uint64, uint64) {
	return unpackEarnings(storage.Pool.Earnings.Get(uint64Key(productUID)))
}

func packEarnings(deposited uint64, withdrawn uint64) []byte {
	packed := make([]byte, 16)
	binary.BigEndian.PutUint64(packed[0:8], deposited)
	binary.BigEndian.PutUint64(packed[8:16], withdrawn)
	return packed
}

func unpackEarnings(packed []byte) (uint64, uint64) {
	if 16 != len(packed) {
		return 0, 0
	}
	return binary.BigEndian.Uint64(packed[0:8]), binary.BigEndian.Uint64(packed[8:16])
}

func uint64Key(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

func holderKey(productUID uint64, holder account.Account) []byte {
	key := make([]byte, 0, 8+account.AccountSize)
	key = append(key, uint64Key(productUID)...)
	return append(key, holder.Bytes()...)
}
