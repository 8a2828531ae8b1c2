// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package product

import (
	"encoding/binary"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
)

// Record - a stored product
type Record struct {
	UID              uint64          `json:"uid"`
	Owner            account.Account `json:"owner"`
	CreatorIdentity  uint64          `json:"creatorIdentity"`
	URI              string          `json:"uri"`
	InitialDataCount uint64          `json:"initialDataCount"`
	DataCount        uint64          `json:"dataCount"`
}

// packed layout: uid[8] ‖ owner[20] ‖ creator[8] ‖ initial[8] ‖ count[8] ‖ uri
func (r Record) pack() []byte {
	buffer := make([]byte, 0, 32+account.AccountSize+len(r.URI))
	buffer = appendUint64(buffer, r.UID)
	buffer = append(buffer, r.Owner.Bytes()...)
	buffer = appendUint64(buffer, r.CreatorIdentity)
	buffer = appendUint64(buffer, r.InitialDataCount)
	buffer = appendUint64(buffer, r.DataCount)
	buffer = append(buffer, r.URI...)
	return buffer
}

func unpack(packed []byte) (Record, error) {
	const fixed = 32 + account.AccountSize
	if len(packed) < fixed {
		return Record{}, fault.ErrProductNotFound
	}
	owner, err := account.FromBytes(packed[8 : 8+account.AccountSize])
	if nil != err {
		return Record{}, err
	}
	n := 8 + account.AccountSize
	return Record{
		UID:              binary.BigEndian.Uint64(packed[:8]),
		Owner:            owner,
		CreatorIdentity:  binary.BigEndian.Uint64(packed[n : n+8]),
		InitialDataCount: binary.BigEndian.Uint64(packed[n+8 : n+16]),
		DataCount:        binary.BigEndian.Uint64(packed[n+16 : n+24]),
		URI:              string(packed[fixed:]),
	}, nil
}

func appendUint64(buffer []byte, n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return append(buffer, b[:]...)
}

func uint64Key(n uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], n)
	return key[:]
}

func listKey(uid uint64, seq uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uid)
	binary.BigEndian.PutUint64(key[8:], seq)
	return key
}

func creditKey(dataHash []byte, uid uint64) []byte {
	key := make([]byte, 0, len(dataHash)+8)
	key = append(key, dataHash...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uid)
	return append(key, b[:]...)
}
