// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package marketplace - secondary trading of product shards
//
// holders list shards at a token price per unit; buyers settle in
// tokens against the listing, optionally discounted by an admin
// signed coupon.  shard movement through a sale obeys the issuance
// lock rule
package marketplace

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/shard"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
	"github.com/singnet/rejuve-platform-contracts/token"
)

// Coupon - an admin signed discount in basis points
type Coupon struct {
	Bps       uint64
	Nonce     uint64
	Signature account.Signature
}

var globalData struct {
	sync.RWMutex
	log     *logger.L
	context account.Account

	initialised bool
}

// Initialise - set the marketplace's signature binding address
func Initialise(context account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("marketplace")
	globalData.log.Info("starting…")
	globalData.context = context
	globalData.initialised = true
	return nil
}

// Finalise - shut down the marketplace
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

// Context - the marketplace's signature binding address
func Context() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.context
}

// List - offer the seller's shards of a product at a unit price
func List(seller account.Account, productUID uint64, price uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}
	if storage.Pool.Listings.Has(listingKey(seller, productUID)) {
		return fault.ErrAlreadyListed
	}
	if 0 == price {
		return fault.ErrZeroPrice
	}
	if 0 == shard.BalanceOf(seller, productUID) {
		return fault.ErrInsufficientBalance
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	trx.PutN(storage.Pool.Listings, listingKey(seller, productUID), price)
	return trx.Commit()
}

// UpdateList - change the unit price of an existing listing
func UpdateList(seller account.Account, productUID uint64, price uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}
	if !storage.Pool.Listings.Has(listingKey(seller, productUID)) {
		return fault.ErrNotListed
	}
	if 0 == price {
		return fault.ErrZeroPrice
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	trx.PutN(storage.Pool.Listings, listingKey(seller, productUID), price)
	return trx.Commit()
}

// Unlist - withdraw a listing
func Unlist(seller account.Account, productUID uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}
	if !storage.Pool.Listings.Has(listingKey(seller, productUID)) {
		return fault.ErrNotListed
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	trx.Delete(storage.Pool.Listings, listingKey(seller, productUID))
	return trx.Commit()
}

// ListedPrice - the unit price of a listing, zero when not listed
func ListedPrice(seller account.Account, productUID uint64) uint64 {
	price, _ := storage.Pool.Listings.GetN(listingKey(seller, productUID))
	return price
}

// Buy - settle a purchase against a listing
//
// the token payment, the shard movement, and the coupon consumption
// commit as one batch or not at all
func Buy(buyer account.Account, seller account.Account, productUID uint64, quantity uint64, coupon *Coupon) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}
	if 0 == quantity {
		return fault.ErrZeroAmount
	}

	price, ok := storage.Pool.Listings.GetN(listingKey(seller, productUID))
	if !ok {
		return fault.ErrNotListed
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	cost := price * quantity
	if nil != coupon {
		if coupon.Bps > 10000 {
			trx.Abort()
			return fault.ErrPercentOverflow
		}
		admin := mode.Administrator()
		digest := sigauth.CouponDigest(admin, buyer, Context(), coupon.Bps, coupon.Nonce)
		if err := sigauth.Verify(trx, admin, digest, coupon.Signature); nil != err {
			trx.Abort()
			return err
		}
		cost -= cost * coupon.Bps / 10000
	}

	if err := token.StageTransfer(trx, buyer, seller, cost); nil != err {
		trx.Abort()
		return err
	}
	if err := shard.StageTransfer(trx, seller, buyer, productUID, quantity); nil != err {
		trx.Abort()
		return err
	}

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("sale of %d shards of product %d for %d tokens", quantity, productUID, cost)
	globalData.RUnlock()
	return nil
}

// listingKey - seller ‖ productUID
func listingKey(seller account.Account, productUID uint64) []byte {
	key := make([]byte, 0, account.AccountSize+8)
	key = append(key, seller.Bytes()...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], productUID)
	return append(key, b[:]...)
}
