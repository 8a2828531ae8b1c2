// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shard

import (
	"encoding/binary"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/chainclock"
	"github.com/singnet/rejuve-platform-contracts/fault"
)

// Phase - issuance progress for one product
type Phase byte

// issuance phases, strictly forward
const (
	Uninitialised Phase = iota
	InitialDistributed
	FutureDistributed
	RemainingMinted
)

// Config - per-product issuance parameters and progress
type Config struct {
	TargetSupply   uint64
	InitialPercent uint64
	RejuvePercent  uint64
	FuturePercent  uint64
	LockDeadline   chainclock.Timestamp
	MintedSoFar    uint64
	SupplySnapshot uint64
	Phase          Phase
}

const packedConfigSize = 7*8 + 1

func (c Config) pack() []byte {
	buffer := make([]byte, 0, packedConfigSize)
	buffer = appendUint64(buffer, c.TargetSupply)
	buffer = appendUint64(buffer, c.InitialPercent)
	buffer = appendUint64(buffer, c.RejuvePercent)
	buffer = appendUint64(buffer, c.FuturePercent)
	buffer = appendUint64(buffer, uint64(c.LockDeadline))
	buffer = appendUint64(buffer, c.MintedSoFar)
	buffer = appendUint64(buffer, c.SupplySnapshot)
	return append(buffer, byte(c.Phase))
}

func unpackConfig(packed []byte) (Config, error) {
	if packedConfigSize != len(packed) {
		return Config{}, fault.ErrShardConfigNotFound
	}
	return Config{
		TargetSupply:   binary.BigEndian.Uint64(packed[0:8]),
		InitialPercent: binary.BigEndian.Uint64(packed[8:16]),
		RejuvePercent:  binary.BigEndian.Uint64(packed[16:24]),
		FuturePercent:  binary.BigEndian.Uint64(packed[24:32]),
		LockDeadline:   chainclock.Timestamp(binary.BigEndian.Uint64(packed[32:40])),
		MintedSoFar:    binary.BigEndian.Uint64(packed[40:48]),
		SupplySnapshot: binary.BigEndian.Uint64(packed[48:56]),
		Phase:          Phase(packed[56]),
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

// balanceKey - uid ‖ holder
func balanceKey(uid uint64, holder account.Account) []byte {
	key := make([]byte, 0, 8+account.AccountSize)
	key = appendUint64(key, uid)
	return append(key, holder.Bytes()...)
}
