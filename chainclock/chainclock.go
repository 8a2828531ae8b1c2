// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainclock - the logical clock shared by all components
//
// permission deadlines and transfer lock windows are measured against
// this clock, never against the wall clock directly; it only moves
// forward and under test it is advanced explicitly between calls
package chainclock

import (
	"sync"
	"time"
)

// Timestamp - seconds since the Unix epoch
type Timestamp uint64

var globalData struct {
	sync.RWMutex
	now         Timestamp
	initialised bool
}

// Initialise - seed the clock from the wall clock
func Initialise() {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return
	}
	globalData.now = Timestamp(time.Now().Unix())
	globalData.initialised = true
}

// Finalise - reset for the next Initialise
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	globalData.now = 0
	globalData.initialised = false
}

// Now - the current logical time
func Now() Timestamp {
	globalData.RLock()
	defer globalData.RUnlock()

	return globalData.now
}

// Advance - move the clock forward by a number of seconds
func Advance(seconds uint64) {
	globalData.Lock()
	defer globalData.Unlock()

	globalData.now += Timestamp(seconds)
}

// Set - jump the clock to an absolute time
//
// a value below the current time is ignored: the clock never goes back
func Set(t Timestamp) {
	globalData.Lock()
	defer globalData.Unlock()

	if t > globalData.now {
		globalData.now = t
	}
}
