// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigauth

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

var globalData struct {
	sync.RWMutex
	log      *logger.L
	consumed *storage.PoolHandle

	initialised bool
}

// Initialise - attach the consumed-digest pool
//
// the pool is injected rather than referenced directly so tests can
// run the authoriser against a private store
func Initialise(consumed *storage.PoolHandle) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("sigauth")
	globalData.log.Info("starting…")
	globalData.consumed = consumed
	globalData.initialised = true
	return nil
}

// Finalise - detach
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	globalData.log.Flush()
	globalData.consumed = nil
	globalData.initialised = false
	return nil
}

// Verify - check a signature over a digest and consume the digest
//
// the consumption is staged on the caller's transaction: it becomes
// permanent only if the whole call commits
func Verify(trx *storage.Transaction, claim account.Account, digest []byte, signature account.Signature) error {
	globalData.RLock()
	consumed := globalData.consumed
	globalData.RUnlock()

	if nil == consumed {
		return fault.ErrNotInitialised
	}

	if claim.IsZero() {
		return fault.ErrSignerIsZero
	}

	if trx.Has(consumed, digest) {
		return fault.ErrSignatureAlreadyUsed
	}

	recovered, err := account.RecoverPrincipal(digest, signature)
	if nil != err {
		return err
	}
	if recovered != claim {
		globalData.RLock()
		globalData.log.Warnf("signer mismatch: recovered: %s  claimed: %s", recovered, claim)
		globalData.RUnlock()
		return fault.ErrInvalidSignature
	}

	trx.Put(consumed, digest, []byte{1})
	return nil
}
