// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mode - process-wide halt flag
//
// an administrative principal may pause all state mutating operations;
// read operations remain available while paused
package mode

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
)

var globalData struct {
	sync.RWMutex
	log    *logger.L
	admin  account.Account
	paused bool

	// set once during initialise
	initialised bool
}

// Initialise - set up the halt system with its administrator
func Initialise(admin account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	if admin.IsZero() {
		return fault.ErrZeroPrincipal
	}

	globalData.log = logger.New("mode")
	globalData.log.Info("starting…")

	globalData.admin = admin
	globalData.paused = false
	globalData.initialised = true

	return nil
}

// Finalise - shutdown halt handling
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()
	globalData.initialised = false

	return nil
}

// Pause - halt all mutating operations
func Pause(by account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if by != globalData.admin {
		return fault.ErrNotAdministrator
	}
	globalData.paused = true
	globalData.log.Warn("paused")
	return nil
}

// Resume - lift the halt
func Resume(by account.Account) error {
	globalData.Lock()
	defer globalData.Unlock()

	if by != globalData.admin {
		return fault.ErrNotAdministrator
	}
	globalData.paused = false
	globalData.log.Info("resumed")
	return nil
}

// IsPaused - check the halt flag
func IsPaused() bool {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.paused
}

// Administrator - the configured administrative principal
func Administrator() account.Account {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.admin
}

// EnsureRunning - guard used by every mutating entry point
func EnsureRunning() error {
	if IsPaused() {
		return fault.ErrHalted
	}
	return nil
}
