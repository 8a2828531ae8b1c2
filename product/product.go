// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package product - aggregation of permitted data into products
//
// a registered identity assembles permitted data hashes, each with a
// credit weight, into a product record; further hashes can be linked
// later by the creator but never removed or reordered.  a catalog can
// optionally be configured with a trusted attester, in which case
// product creation additionally requires the attester's signature
// over the credit weights
package product

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/dataledger"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/identity"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// Attestation - a credit attestation accompanying product creation
type Attestation struct {
	Nonce     uint64
	Signature account.Signature
}

var globalData struct {
	sync.RWMutex
	log      *logger.L
	context  account.Account
	attester account.Account

	initialised bool
}

// Initialise - set the catalog's context and optional attester
//
// a zero attester selects the plain variant: no attestation is
// demanded or accepted
func Initialise(context account.Account, attester account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("product")
	globalData.log.Info("starting…")
	globalData.context = context
	globalData.attester = attester
	globalData.initialised = true
	return nil
}

// Finalise - shut down the catalog
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

// Context - the catalog's signature binding address
func Context() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.context
}

// Attester - the configured attester, zero for the plain variant
func Attester() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.attester
}

// Create - assemble a product from permitted data hashes
//
// every (hash, uid) pair must hold a live permission; one missing or
// expired permission blocks the whole call.  when an attester is
// configured the attestation is verified before the permission scan
func Create(caller account.Account, creatorID uint64, productUID uint64, uri string, dataHashes [][]byte, credits []uint64, attestation *Attestation) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	if !identity.IsRegistered(caller) {
		return fault.ErrNotRegistered
	}
	if identity.OwnerIdentity(caller) != creatorID {
		return fault.ErrNotIdentityOwner
	}
	if len(dataHashes) != len(credits) {
		return fault.ErrLengthMismatch
	}
	if storage.Pool.Products.Has(uint64Key(productUID)) {
		return fault.ErrProductAlreadyExists
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	attester := Attester()
	if !attester.IsZero() {
		if nil == attestation {
			trx.Abort()
			return fault.ErrInvalidSignature
		}
		concatenated, err := sigauth.ConcatenatedDataHash(dataHashes)
		if nil != err {
			trx.Abort()
			return err
		}
		digest := sigauth.ProductDigest(productUID, attestation.Nonce, uri, attester, concatenated, credits, caller, Context())
		if err := sigauth.Verify(trx, attester, digest, attestation.Signature); nil != err {
			trx.Abort()
			return err
		}
	} else if nil != attestation {
		trx.Abort()
		return fault.ErrSignerIsZero
	}

	if err := stageData(trx, productUID, 0, dataHashes, credits); nil != err {
		trx.Abort()
		return err
	}

	r := Record{
		UID:              productUID,
		Owner:            caller,
		CreatorIdentity:  creatorID,
		URI:              uri,
		InitialDataCount: uint64(len(dataHashes)),
		DataCount:        uint64(len(dataHashes)),
	}
	trx.Put(storage.Pool.Products, uint64Key(productUID), r.pack())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("created product: %d  creator identity: %d  data: %d", productUID, creatorID, len(dataHashes))
	globalData.RUnlock()
	return nil
}

// LinkNewData - append further permitted hashes to a product
//
// restricted to the stored product owner; existing entries are never
// touched
func LinkNewData(caller account.Account, productUID uint64, dataHashes [][]byte, credits []uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	packed := storage.Pool.Products.Get(uint64Key(productUID))
	if nil == packed {
		return fault.ErrProductNotFound
	}
	r, err := unpack(packed)
	if nil != err {
		return err
	}
	if r.Owner != caller {
		return fault.ErrOnlyProductCreator
	}
	if len(dataHashes) != len(credits) {
		return fault.ErrLengthMismatch
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	if err := stageData(trx, productUID, r.DataCount, dataHashes, credits); nil != err {
		trx.Abort()
		return err
	}

	r.DataCount += uint64(len(dataHashes))
	trx.Put(storage.Pool.Products, uint64Key(productUID), r.pack())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}
	return nil
}

// check permissions and stage hash/credit records starting at seq
func stageData(trx *storage.Transaction, productUID uint64, seq uint64, dataHashes [][]byte, credits []uint64) error {
	for i, hash := range dataHashes {
		if !dataledger.IsPermitted(hash, productUID) {
			return fault.ErrDataNotPermitted
		}
		trx.Put(storage.Pool.ProductData, listKey(productUID, seq+uint64(i)), hash)
		trx.PutN(storage.Pool.ProductCredits, creditKey(hash, productUID), credits[i])
	}
	return nil
}

// Get - fetch a stored product record
func Get(productUID uint64) (*Record, error) {
	packed := storage.Pool.Products.Get(uint64Key(productUID))
	if nil == packed {
		return nil, fault.ErrProductNotFound
	}
	r, err := unpack(packed)
	if nil != err {
		return nil, err
	}
	return &r, nil
}

// OwnerOf - the product owner's principal
func OwnerOf(productUID uint64) (account.Account, error) {
	r, err := Get(productUID)
	if nil != err {
		return account.Account{}, err
	}
	return r.Owner, nil
}

// DataOf - the product's ordered data hashes
func DataOf(productUID uint64) ([][]byte, error) {
	r, err := Get(productUID)
	if nil != err {
		return nil, err
	}
	hashes := make([][]byte, 0, r.DataCount)
	for seq := uint64(0); seq < r.DataCount; seq += 1 {
		hash := storage.Pool.ProductData.Get(listKey(productUID, seq))
		if nil == hash {
			return nil, fault.ErrDataNotFound
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// CreditOf - the credit weight recorded for a hash in a product
func CreditOf(dataHash []byte, productUID uint64) uint64 {
	credit, _ := storage.Pool.ProductCredits.GetN(creditKey(dataHash, productUID))
	return credit
}

// DataOwnerPrincipal - the principal that submitted a hash
func DataOwnerPrincipal(dataHash []byte) (account.Account, error) {
	id := dataledger.DataOwnerID(dataHash)
	if 0 == id {
		return account.Account{}, fault.ErrDataNotFound
	}
	r, err := identity.Get(id)
	if nil != err {
		return account.Account{}, err
	}
	return r.Owner, nil
}
