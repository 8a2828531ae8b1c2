// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dataledger - content hashes and usage permissions
//
// registered identities submit content-addressed data hashes; the
// recorded owner of a hash can grant a requester's product a
// time-boxed usage permission.  permission expiry is a read-time
// check: stored status bits are never cleared by the clock
package dataledger

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/chainclock"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/identity"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// Status - stored permission state
type Status byte

// possible permission states
const (
	NotPermitted Status = iota
	Permitted
)

var globalData struct {
	sync.RWMutex
	log     *logger.L
	context account.Account

	initialised bool
}

// Initialise - set the ledger's context address
func Initialise(context account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("dataledger")
	globalData.log.Info("starting…")
	globalData.context = context
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

// Context - the ledger's signature binding address
func Context() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.context
}

// Submit - record a data hash against its owner's identity
//
// the hash is appended to the owner's ordered list; a hash can only
// ever be recorded once
func Submit(owner account.Account, dataHash []byte, nonce uint64, signature account.Signature) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	ownerID := identity.OwnerIdentity(owner)
	if 0 == ownerID {
		return fault.ErrNotRegistered
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	if trx.Has(storage.Pool.DataOwners, dataHash) {
		trx.Abort()
		return fault.ErrDataAlreadyExists
	}

	digest := sigauth.DataDigest(owner, dataHash, nonce, Context())
	if err := sigauth.Verify(trx, owner, digest, signature); nil != err {
		trx.Abort()
		return err
	}

	count, _ := trx.GetN(storage.Pool.DataCounts, uint64Key(ownerID))
	trx.PutN(storage.Pool.DataOwners, dataHash, ownerID)
	trx.Put(storage.Pool.DataLists, listKey(ownerID, count), dataHash)
	trx.PutN(storage.Pool.DataCounts, uint64Key(ownerID), count+1)

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("data: %x  owner identity: %d", dataHash, ownerID)
	globalData.RUnlock()
	return nil
}

// GrantPermission - let a requester's product use a data hash
//
// the deadline is now + expirationSeconds; signing a duration rather
// than an absolute deadline keeps the payload stable however long the
// signature sits before submission
func GrantPermission(owner account.Account, requesterID uint64, dataHash []byte, productUID uint64, nonce uint64, expirationSeconds uint64, signature account.Signature) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	if _, err := identity.Get(requesterID); nil != err {
		return fault.ErrNotRegistered
	}

	ownerID := identity.OwnerIdentity(owner)
	if 0 == ownerID {
		return fault.ErrNotRegistered
	}

	recordedOwner, ok := storage.Pool.DataOwners.GetN(dataHash)
	if !ok || recordedOwner != ownerID {
		return fault.ErrNotDataOwner
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	digest := sigauth.PermissionDigest(owner, requesterID, dataHash, productUID, nonce, expirationSeconds, Context())
	if err := sigauth.Verify(trx, owner, digest, signature); nil != err {
		trx.Abort()
		return err
	}

	deadline := uint64(chainclock.Now()) + expirationSeconds
	trx.Put(storage.Pool.Permissions, permissionKey(dataHash, productUID), packPermission(Permitted, deadline))

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}
	return nil
}

// PermissionStatus - stored status bit, ignores expiry
func PermissionStatus(dataHash []byte, productUID uint64) Status {
	packed := storage.Pool.Permissions.Get(permissionKey(dataHash, productUID))
	if nil == packed {
		return NotPermitted
	}
	status, _ := unpackPermission(packed)
	return status
}

// PermissionDeadline - stored deadline, 0 when no grant exists
func PermissionDeadline(dataHash []byte, productUID uint64) chainclock.Timestamp {
	packed := storage.Pool.Permissions.Get(permissionKey(dataHash, productUID))
	if nil == packed {
		return 0
	}
	_, deadline := unpackPermission(packed)
	return chainclock.Timestamp(deadline)
}

// IsPermitted - the true permitted predicate: granted and unexpired
func IsPermitted(dataHash []byte, productUID uint64) bool {
	packed := storage.Pool.Permissions.Get(permissionKey(dataHash, productUID))
	if nil == packed {
		return false
	}
	status, deadline := unpackPermission(packed)
	return Permitted == status && uint64(chainclock.Now()) <= deadline
}

// DataOwnerID - identity that submitted a hash, 0 if unknown
func DataOwnerID(dataHash []byte) uint64 {
	id, ok := storage.Pool.DataOwners.GetN(dataHash)
	if !ok {
		return 0
	}
	return id
}

// DataByIdentity - the index'th hash submitted by an identity
func DataByIdentity(id uint64, index uint64) ([]byte, bool) {
	hash := storage.Pool.DataLists.Get(listKey(id, index))
	if nil == hash {
		return nil, false
	}
	return hash, true
}

// DataCount - number of hashes submitted by an identity
func DataCount(id uint64) uint64 {
	count, _ := storage.Pool.DataCounts.GetN(uint64Key(id))
	return count
}

// key and record layouts

func uint64Key(n uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], n)
	return key[:]
}

func listKey(id uint64, seq uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], id)
	binary.BigEndian.PutUint64(key[8:], seq)
	return key
}

func permissionKey(dataHash []byte, productUID uint64) []byte {
	key := make([]byte, 0, len(dataHash)+8)
	key = append(key, dataHash...)
	var uid [8]byte
	binary.BigEndian.PutUint64(uid[:], productUID)
	return append(key, uid[:]...)
}

// status[1] ‖ deadline[8]
func packPermission(status Status, deadline uint64) []byte {
	packed := make([]byte, 9)
	packed[0] = byte(status)
	binary.BigEndian.PutUint64(packed[1:], deadline)
	return packed
}

func unpackPermission(packed []byte) (Status, uint64) {
	if len(packed) < 9 {
		return NotPermitted, 0
	}
	return Status(packed[0]), binary.BigEndian.Uint64(packed[1:9])
}
