// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package agreement - signed distribution agreements
//
// a product owner records the terms agreed with a distributor: how
// many units, at what unit price and what revenue percentage.  the
// distributor consents by signing the agreement hash; each nonce is
// global and single use
package agreement

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// Record - the stored agreement terms for one distributor
type Record struct {
	Distributor   account.Account
	AgreementHash []byte
	ProductUID    uint64
	TotalUnits    uint64
	UnitPrice     uint64
	Percent       uint64
}

var globalData struct {
	sync.RWMutex
	log     *logger.L
	context account.Account

	initialised bool
}

// Initialise - set the registry's signature binding address
func Initialise(context account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("agreement")
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

// Create - record a distribution agreement
//
// the signature must be the distributor's, over the agreement hash
// and a globally unused nonce
func Create(caller account.Account, distributor account.Account, agreementHash []byte, productUID uint64, totalUnits uint64, unitPrice uint64, percent uint64, nonce uint64, signature account.Signature) error {
	if err := mode.EnsureRunning(); nil != err {
		return err
	}

	if distributor.IsZero() {
		return fault.ErrZeroPrincipal
	}
	if 0 == totalUnits {
		return fault.ErrZeroUnits
	}
	if 0 == unitPrice {
		return fault.ErrZeroPrice
	}
	if 0 == percent {
		return fault.ErrZeroPercent
	}
	if percent > 100 {
		return fault.ErrPercentOverflow
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return err
	}

	if trx.Has(storage.Pool.AgreementNonces, uint64Key(nonce)) {
		trx.Abort()
		return fault.ErrNonceAlreadyUsed
	}

	digest := sigauth.AgreementDigest(distributor, agreementHash, nonce, Context())
	if err := distributor.CheckSignature(digest, signature); nil != err {
		trx.Abort()
		return err
	}

	trx.Put(storage.Pool.AgreementNonces, uint64Key(nonce), []byte{1})

	record := Record{
		Distributor:   distributor,
		AgreementHash: agreementHash,
		ProductUID:    productUID,
		TotalUnits:    totalUnits,
		UnitPrice:     unitPrice,
		Percent:       percent,
	}
	trx.Put(storage.Pool.Agreements, distributor.Bytes(), record.pack())

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return err
	}

	globalData.RLock()
	globalData.log.Infof("agreement recorded for distributor %s on product %d", distributor, productUID)
	globalData.RUnlock()
	return nil
}

// Get - the stored agreement for a distributor
func Get(distributor account.Account) (*Record, error) {
	packed := storage.Pool.Agreements.Get(distributor.Bytes())
	if nil == packed {
		return nil, fault.ErrAgreementNotFound
	}
	return unpack(packed)
}

// packing: distributor ‖ productUID ‖ totalUnits ‖ unitPrice ‖
// percent ‖ agreementHash (variable tail)

func (r Record) pack() []byte {
	buffer := make([]byte, 0, account.AccountSize+4*8+len(r.AgreementHash))
	buffer = append(buffer, r.Distributor.Bytes()...)
	buffer = appendUint64(buffer, r.ProductUID)
	buffer = appendUint64(buffer, r.TotalUnits)
	buffer = appendUint64(buffer, r.UnitPrice)
	buffer = appendUint64(buffer, r.Percent)
	return append(buffer, r.AgreementHash...)
}

func unpack(packed []byte) (*Record, error) {
	const fixed = account.AccountSize + 4*8
	if len(packed) < fixed {
		return nil, fault.ErrAgreementNotFound
	}
	distributor, err := account.FromBytes(packed[0:account.AccountSize])
	if nil != err {
		return nil, err
	}
	n := packed[account.AccountSize:]
	hash := make([]byte, len(packed)-fixed)
	copy(hash, packed[fixed:])
	return &Record{
		Distributor:   distributor,
		ProductUID:    binary.BigEndian.Uint64(n[0:8]),
		TotalUnits:    binary.BigEndian.Uint64(n[8:16]),
		UnitPrice:     binary.BigEndian.Uint64(n[16:24]),
		Percent:       binary.BigEndian.Uint64(n[24:32]),
		AgreementHash: hash,
	}, nil
}

func appendUint64(buffer []byte, n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return append(buffer, b[:]...)
}

func uint64Key(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}
