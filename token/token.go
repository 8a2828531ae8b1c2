// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - the fungible settlement ledger
//
// a plain balance and allowance ledger for the platform's payment
// token.  minting and burning are restricted to the configured
// treasury account; transfers are open to any holder
package token

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// Symbol - ticker of the settlement token
const Symbol = "RJV"

var globalData struct {
	sync.RWMutex
	log      *logger.L
	treasury account.Account

	initialised bool
}

// Initialise - set the treasury account that may mint and burn
func Initialise(treasury account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	if treasury.IsZero() {
		return fault.ErrZeroPrincipal
	}
	globalData.log = logger.New("token")
	globalData.log.Info("starting…")
	globalData.treasury = treasury
	globalData.initialised = true
	return nil
}

// Finalise - shut down the ledger
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

// Mint - create tokens for a holder, treasury only
func Mint(by account.Account, to account.Account, amount uint64) error {
	globalData.RLock()
	treasury := globalData.treasury
	globalData.RUnlock()

	if by != treasury {
		return fault.ErrNotAdministrator
	}
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}
	if 0 == amount {
		return fault.ErrZeroAmount
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	balance, _ := trx.GetN(storage.Pool.TokenBalances, to.Bytes())
	trx.PutN(storage.Pool.TokenBalances, to.Bytes(), balance+amount)
	return trx.Commit()
}

// Burn - destroy tokens held by a holder, treasury only
func Burn(by account.Account, from account.Account, amount uint64) error {
	globalData.RLock()
	treasury := globalData.treasury
	globalData.RUnlock()

	if by != treasury {
		return fault.ErrNotAdministrator
	}
	if 0 == amount {
		return fault.ErrZeroAmount
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	balance, _ := trx.GetN(storage.Pool.TokenBalances, from.Bytes())
	if amount > balance {
		trx.Abort()
		return fault.ErrInsufficientBalance
	}
	trx.PutN(storage.Pool.TokenBalances, from.Bytes(), balance-amount)
	return trx.Commit()
}

// Transfer - move tokens between holders
func Transfer(from account.Account, to account.Account, amount uint64) error {
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	if err := move(trx, from, to, amount); nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// Approve - set a spender's allowance over the owner's balance
func Approve(owner account.Account, spender account.Account, amount uint64) error {
	if spender.IsZero() {
		return fault.ErrZeroPrincipal
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	trx.PutN(storage.Pool.TokenAllowances, allowanceKey(owner, spender), amount)
	return trx.Commit()
}

// TransferFrom - spend from an owner's balance under allowance
func TransferFrom(spender account.Account, from account.Account, to account.Account, amount uint64) error {
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	if err := spend(trx, spender, from, to, amount); nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// BalanceOf - a holder's token balance
func BalanceOf(holder account.Account) uint64 {
	balance, _ := storage.Pool.TokenBalances.GetN(holder.Bytes())
	return balance
}

// Allowance - the unspent allowance of a spender over an owner
func Allowance(owner account.Account, spender account.Account) uint64 {
	allowance, _ := storage.Pool.TokenAllowances.GetN(allowanceKey(owner, spender))
	return allowance
}

// move - stage a balance transfer inside an open transaction
//
// exported through Transfer, but also used directly by engines that
// need token movement and other writes committed as one batch
func move(trx *storage.Transaction, from account.Account, to account.Account, amount uint64) error {
	balance, _ := trx.GetN(storage.Pool.TokenBalances, from.Bytes())
	if amount > balance {
		return fault.ErrInsufficientBalance
	}
	trx.PutN(storage.Pool.TokenBalances, from.Bytes(), balance-amount)

	received, _ := trx.GetN(storage.Pool.TokenBalances, to.Bytes())
	trx.PutN(storage.Pool.TokenBalances, to.Bytes(), received+amount)
	return nil
}

func spend(trx *storage.Transaction, spender account.Account, from account.Account, to account.Account, amount uint64) error {
	if spender != from {
		allowance, _ := trx.GetN(storage.Pool.TokenAllowances, allowanceKey(from, spender))
		if amount > allowance {
			return fault.ErrInsufficientAllowance
		}
		trx.PutN(storage.Pool.TokenAllowances, allowanceKey(from, spender), allowance-amount)
	}
	return move(trx, from, to, amount)
}

// StageTransfer - stage a holder-to-holder transfer in a caller
// supplied transaction, committed or aborted by the caller
func StageTransfer(trx *storage.Transaction, from account.Account, to account.Account, amount uint64) error {
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}
	return move(trx, from, to, amount)
}

// StageTransferFrom - allowance spend staged in a caller supplied
// transaction
func StageTransferFrom(trx *storage.Transaction, spender account.Account, from account.Account, to account.Account, amount uint64) error {
	if to.IsZero() {
		return fault.ErrZeroPrincipal
	}
	return spend(trx, spender, from, to, amount)
}

func allowanceKey(owner account.Account, spender account.Account) []byte {
	key := make([]byte, 0, 2*account.AccountSize)
	key = append(key, owner.Bytes()...)
	return append(key, spender.Bytes()...)
}
