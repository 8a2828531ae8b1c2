// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package shard - phased issuance of product shares
//
// each product runs through a fixed issuance sequence: an initial
// distribution to the data contributors and the lab, an optional
// platform cut, a future distribution round, and a final mint of the
// remainder.  minted balances are transferable, subject to a 50% per
// call limit while the lock window is open
package shard

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/chainclock"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/product"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

var globalData struct {
	sync.RWMutex
	log *logger.L

	initialised bool
}

// Initialise - start the issuance engine
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("shard")
	globalData.log.Info("starting…")
	globalData.initialised = true
	return nil
}

// Finalise - shut down the issuance engine
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

// DistributeInitial - open issuance for a product
//
// the initial pool is targetSupply*initialPercent/100, split between
// the product's data contributors and the lab in proportion to credit
// weight; the platform cut is targetSupply*rejuvePercent/100.  all
// divisions truncate.  the transfer lock runs for lockSeconds from now
func DistributeInitial(caller account.Account, productUID uint64, targetSupply uint64, labCredit uint64, lockSeconds uint64, initialPercent uint64, rejuvePercent uint64, labHolder account.Account, rejuveHolder account.Account) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	owner, err := product.OwnerOf(productUID)
	if nil != err {
		return err
	}
	if owner != caller {
		return fault.ErrOnlyProductCreator
	}

	if storage.Pool.ShardConfigs.Has(uint64Key(productUID)) {
		return fault.ErrPhaseOutOfOrder
	}
	if 0 == targetSupply {
		return fault.ErrZeroTargetSupply
	}
	if 0 == initialPercent {
		return fault.ErrZeroPercent
	}
	if 0 == lockSeconds {
		return fault.ErrZeroLockPeriod
	}
	if initialPercent+rejuvePercent > 100 {
		return fault.ErrPercentOverflow
	}

	// a holder that would receive shards must be a real principal
	if 0 != labCredit && labHolder.IsZero() {
		return fault.ErrZeroPrincipal
	}
	if 0 != rejuvePercent && rejuveHolder.IsZero() {
		return fault.ErrZeroPrincipal
	}

	dataHashes, err := product.DataOf(productUID)
	if nil != err {
		return err
	}

	totalCredit := labCredit
	for _, dataHash := range dataHashes {
		totalCredit += product.CreditOf(dataHash, productUID)
	}
	if 0 == totalCredit {
		return fault.ErrZeroAmount
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	initialPool := targetSupply * initialPercent / 100
	minted := uint64(0)

	for _, dataHash := range dataHashes {
		principal, err := product.DataOwnerPrincipal(dataHash)
		if nil != err {
			trx.Abort()
			return err
		}
		amount := initialPool * product.CreditOf(dataHash, productUID) / totalCredit
		minted += addBalance(trx, productUID, principal, amount)
	}
	minted += addBalance(trx, productUID, labHolder, initialPool*labCredit/totalCredit)
	minted += addBalance(trx, productUID, rejuveHolder, targetSupply*rejuvePercent/100)

	config := Config{
		TargetSupply:   targetSupply,
		InitialPercent: initialPercent,
		RejuvePercent:  rejuvePercent,
		LockDeadline:   chainclock.Now() + chainclock.Timestamp(lockSeconds),
		MintedSoFar:    minted,
		Phase:          InitialDistributed,
	}
	trx.Put(storage.Pool.ShardConfigs, uint64Key(productUID), config.pack())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("product %d: initial distribution of %d shards", productUID, minted)
	globalData.RUnlock()
	return nil
}

// DistributeFuture - run the future contributor round
//
// the pool is targetSupply*futurePercent/100, split across the given
// holders by credit weight with truncation
func DistributeFuture(caller account.Account, productUID uint64, futurePercent uint64, credits []uint64, holders []account.Account) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	owner, err := product.OwnerOf(productUID)
	if nil != err {
		return err
	}
	if owner != caller {
		return fault.ErrOnlyProductCreator
	}

	config, err := ConfigOf(productUID)
	if nil != err {
		return err
	}
	if InitialDistributed != config.Phase {
		return fault.ErrPhaseOutOfOrder
	}
	if len(credits) != len(holders) {
		return fault.ErrLengthMismatch
	}
	if 0 == futurePercent {
		return fault.ErrZeroPercent
	}
	if config.InitialPercent+config.RejuvePercent+futurePercent > 100 {
		return fault.ErrPercentOverflow
	}

	totalCredit := uint64(0)
	for _, credit := range credits {
		totalCredit += credit
	}
	if 0 == totalCredit {
		return fault.ErrZeroAmount
	}
	for _, holder := range holders {
		if holder.IsZero() {
			return fault.ErrZeroPrincipal
		}
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	pool := config.TargetSupply * futurePercent / 100
	minted := uint64(0)
	for i, holder := range holders {
		minted += addBalance(trx, productUID, holder, pool*credits[i]/totalCredit)
	}

	config.FuturePercent = futurePercent
	config.MintedSoFar += minted
	config.Phase = FutureDistributed
	trx.Put(storage.Pool.ShardConfigs, uint64Key(productUID), config.pack())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("product %d: future distribution of %d shards", productUID, minted)
	globalData.RUnlock()
	return nil
}

// MintRemaining - mint the unissued remainder and close issuance
func MintRemaining(caller account.Account, productUID uint64, recipient account.Account) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	owner, err := product.OwnerOf(productUID)
	if nil != err {
		return err
	}
	if owner != caller {
		return fault.ErrOnlyProductCreator
	}

	config, err := ConfigOf(productUID)
	if nil != err {
		return err
	}
	if FutureDistributed != config.Phase {
		return fault.ErrPhaseOutOfOrder
	}
	if recipient.IsZero() {
		return fault.ErrZeroPrincipal
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	remainder := config.TargetSupply - config.MintedSoFar
	addBalance(trx, productUID, recipient, remainder)

	config.MintedSoFar = config.TargetSupply
	config.SupplySnapshot = config.TargetSupply
	config.Phase = RemainingMinted
	trx.Put(storage.Pool.ShardConfigs, uint64Key(productUID), config.pack())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("product %d: issuance closed with %d remainder shards", productUID, remainder)
	globalData.RUnlock()
	return nil
}

// Transfer - move shards between holders
//
// while the lock window is open a single call may move at most half
// of the sender's current balance
func Transfer(from account.Account, to account.Account, productUID uint64, quantity uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}
	if 0 == quantity {
		return fault.ErrZeroAmount
	}

	config, err := ConfigOf(productUID)
	if nil != err {
		return err
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	if err := stageMove(trx, config, from, to, productUID, quantity); nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// StageTransfer - shard movement staged in a caller supplied
// transaction, committed or aborted by the caller; the lock rule
// still applies
func StageTransfer(trx *storage.Transaction, from account.Account, to account.Account, productUID uint64, quantity uint64) error {
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}
	if 0 == quantity {
		return fault.ErrZeroAmount
	}
	config, err := ConfigOf(productUID)
	if nil != err {
		return err
	}
	return stageMove(trx, config, from, to, productUID, quantity)
}

func stageMove(trx *storage.Transaction, config Config, from account.Account, to account.Account, productUID uint64, quantity uint64) error {
	balance, _ := trx.GetN(storage.Pool.ShardBalances, balanceKey(productUID, from))
	if quantity > balance {
		return fault.ErrInsufficientBalance
	}
	if chainclock.Now() <= config.LockDeadline && 2*quantity > balance {
		return fault.ErrLockPeriodActive
	}
	trx.PutN(storage.Pool.ShardBalances, balanceKey(productUID, from), balance-quantity)
	addBalance(trx, productUID, to, quantity)
	return nil
}

// BalanceOf - a holder's shard balance for a product
func BalanceOf(holder account.Account, productUID uint64) uint64 {
	balance, _ := storage.Pool.ShardBalances.GetN(balanceKey(productUID, holder))
	return balance
}

// ConfigOf - the issuance configuration for a product
func ConfigOf(productUID uint64) (Config, error) {
	packed := storage.Pool.ShardConfigs.Get(uint64Key(productUID))
	if nil == packed {
		return Config{}, fault.ErrShardConfigNotFound
	}
	return unpackConfig(packed)
}

// MintedSoFar - total shards issued for a product
func MintedSoFar(productUID uint64) uint64 {
	config, err := ConfigOf(productUID)
	if nil != err {
		return 0
	}
	return config.MintedSoFar
}

// TotalSupply - the supply snapshot recorded when issuance closed
func TotalSupply(productUID uint64) uint64 {
	config, err := ConfigOf(productUID)
	if nil != err {
		return 0
	}
	return config.SupplySnapshot
}

// TotalShards - the divisor used for profit splits: the snapshot once
// issuance is closed, the running mint count before that
func TotalShards(productUID uint64) uint64 {
	config, err := ConfigOf(productUID)
	if nil != err {
		return 0
	}
	if RemainingMinted == config.Phase {
		return config.SupplySnapshot
	}
	return config.MintedSoFar
}

func addBalance(trx *storage.Transaction, productUID uint64, holder account.Account, amount uint64) uint64 {
	if 0 == amount {
		return 0
	}
	key := balanceKey(productUID, holder)
	balance, _ := trx.GetN(storage.Pool.ShardBalances, key)
	trx.PutN(storage.Pool.ShardBalances, key, balance+amount)
	return amount
}
