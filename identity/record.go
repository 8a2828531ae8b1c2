// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
)

// Record - a stored identity
type Record struct {
	ID          uint64          `json:"id"`
	Owner       account.Account `json:"owner"`
	MetadataURI string          `json:"metadataURI"`
	KYC         common.Hash     `json:"kycHash"`
}

// packed layout: id[8] ‖ owner[20] ‖ kyc[32] ‖ uri
func (r Record) pack() []byte {
	buffer := make([]byte, 0, 8+account.AccountSize+common.HashLength+len(r.MetadataURI))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], r.ID)
	buffer = append(buffer, n[:]...)
	buffer = append(buffer, r.Owner.Bytes()...)
	buffer = append(buffer, r.KYC[:]...)
	buffer = append(buffer, r.MetadataURI...)
	return buffer
}

func unpack(packed []byte) (Record, error) {
	const fixed = 8 + account.AccountSize + common.HashLength
	if len(packed) < fixed {
		return Record{}, fault.ErrIdentityNotFound
	}
	id := binary.BigEndian.Uint64(packed[:8])
	owner, err := account.FromBytes(packed[8 : 8+account.AccountSize])
	if nil != err {
		return Record{}, err
	}
	var kyc common.Hash
	copy(kyc[:], packed[8+account.AccountSize:fixed])
	return Record{
		ID:          id,
		Owner:       owner,
		MetadataURI: string(packed[fixed:]),
		KYC:         kyc,
	}, nil
}

// uint64Key - big endian key for id keyed pools
func uint64Key(n uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], n)
	return key[:]
}
