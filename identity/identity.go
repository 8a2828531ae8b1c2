// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - one identity per principal
//
// identities are created only through a single-use signature from the
// owning principal and may be revoked only by that owner; ids are
// dense and monotonically increasing from 1
package identity

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// counter key inside the IdentityCounter pool
var nextIDKey = []byte("next")

var globalData struct {
	sync.RWMutex
	log     *logger.L
	context account.Account

	initialised bool
}

// Initialise - set the registry's context address
//
// the context binds every createIdentity signature to this deployed
// registry instance
func Initialise(context account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("identity")
	globalData.log.Info("starting…")
	globalData.context = context
	globalData.initialised = true
	return nil
}

// Finalise - shut down the registry
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

// Context - the registry's signature binding address
func Context() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.context
}

// Create - register a new identity
//
// the signature must cover (kyc, owner, metadataURI, nonce, context)
// and is consumed atomically with the registration
func Create(owner account.Account, kyc common.Hash, metadataURI string, nonce uint64, signature account.Signature) (uint64, error) {
	if err := mode.EnsureRunning(); nil != err {
		return 0, err
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return 0, err
	}

	if trx.Has(storage.Pool.IdentityOwners, owner.Bytes()) {
		trx.Abort()
		return 0, fault.ErrAlreadyRegistered
	}

	digest := sigauth.IdentityDigest(kyc, owner, metadataURI, nonce, Context())
	if err := sigauth.Verify(trx, owner, digest, signature); nil != err {
		trx.Abort()
		return 0, err
	}

	id, ok := trx.GetN(storage.Pool.IdentityCounter, nextIDKey)
	if !ok {
		id = 1
	}

	r := Record{
		ID:          id,
		Owner:       owner,
		MetadataURI: metadataURI,
		KYC:         kyc,
	}
	trx.Put(storage.Pool.Identities, uint64Key(id), r.pack())
	trx.PutN(storage.Pool.IdentityOwners, owner.Bytes(), id)
	trx.PutN(storage.Pool.IdentityCounter, nextIDKey, id+1)

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return 0, err
	}

	globalData.RLock()
	globalData.log.Infof("created identity: %d  owner: %s", id, owner)
	globalData.RUnlock()
	return id, nil
}

// Revoke - remove an identity
//
// only the stored owner may revoke; the owner index and metadata are
// cleared so the principal may register again later
func Revoke(caller account.Account, id uint64) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	packed := trx.Get(storage.Pool.Identities, uint64Key(id))
	if nil == packed {
		trx.Abort()
		return fault.ErrIdentityNotFound
	}
	r, err := unpack(packed)
	if nil != err {
		trx.Abort()
		return err
	}
	if r.Owner != caller {
		trx.Abort()
		return fault.ErrNotIdentityOwner
	}

	trx.Delete(storage.Pool.Identities, uint64Key(id))
	trx.Delete(storage.Pool.IdentityOwners, caller.Bytes())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}
	return nil
}

// OwnerIdentity - the identity id held by a principal, 0 if none
func OwnerIdentity(owner account.Account) uint64 {
	id, ok := storage.Pool.IdentityOwners.GetN(owner.Bytes())
	if !ok {
		return 0
	}
	return id
}

// IsRegistered - check for a live identity
func IsRegistered(owner account.Account) bool {
	return 0 != OwnerIdentity(owner)
}

// Get - fetch a stored identity record
func Get(id uint64) (*Record, error) {
	packed := storage.Pool.Identities.Get(uint64Key(id))
	if nil == packed {
		return nil, fault.ErrIdentityNotFound
	}
	r, err := unpack(packed)
	if nil != err {
		return nil, err
	}
	return &r, nil
}
