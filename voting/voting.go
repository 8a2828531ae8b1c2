// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package voting - archived governance proposals
//
// the platform records finished proposals with their participation
// and outcome; ids are sequential and records are immutable once
// stored
package voting

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/fault"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// Record - one archived proposal
type Record struct {
	ID                uint64
	Creator           account.Account
	TotalParticipants uint64
	Info              string
	Result            string
}

var globalData struct {
	sync.RWMutex
	log *logger.L

	initialised bool
}

// Initialise - start the proposal archive
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	globalData.log = logger.New("voting")
	globalData.log.Info("starting…")
	globalData.initialised = true
	return nil
}

// Finalise - shut down the archive
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

var counterKey = []byte("next")

// the packed record stores the info length in two bytes
const maximumInfoLength = 65535

// AddProposal - archive a finished proposal, returning its id
func AddProposal(caller account.Account, totalParticipants uint64, info string, result string) (uint64, error) {
	if err := mode.EnsureRunning(); nil != err {
		return 0, err
	}
	if 0 == totalParticipants {
		return 0, fault.ErrZeroParticipants
	}
	if "" == info {
		return 0, fault.ErrEmptyProposal
	}
	if len(info) > maximumInfoLength {
		return 0, fault.ErrProposalTooLong
	}

	trx := storage.NewTransaction()
	if err := trx.Begin(); nil != err {
		return 0, err
	}

	id, ok := trx.GetN(storage.Pool.ProposalCounter, counterKey)
	if !ok {
		id = 1
	}

	record := Record{
		ID:                id,
		Creator:           caller,
		TotalParticipants: totalParticipants,
		Info:              info,
		Result:            result,
	}
	trx.Put(storage.Pool.Proposals, uint64Key(id), record.pack())
	trx.PutN(storage.Pool.ProposalCounter, counterKey, id+1)

	if err := trx.Commit(); nil != err {
		trx.Abort()
		return 0, err
	}

	globalData.RLock()
	globalData.log.Infof("proposal %d archived with %d participants", id, totalParticipants)
	globalData.RUnlock()
	return id, nil
}

// Get - an archived proposal by id
func Get(id uint64) (*Record, error) {
	packed := storage.Pool.Proposals.Get(uint64Key(id))
	if nil == packed {
		return nil, fault.ErrProposalNotFound
	}
	return unpack(packed)
}

// Count - number of archived proposals
func Count() uint64 {
	next, ok := storage.Pool.ProposalCounter.GetN(counterKey)
	if !ok {
		return 0
	}
	return next - 1
}

// packing: id ‖ creator ‖ participants ‖ info length ‖ info ‖ result

func (r Record) pack() []byte {
	buffer := make([]byte, 0, 8+account.AccountSize+8+2+len(r.Info)+len(r.Result))
	buffer = appendUint64(buffer, r.ID)
	buffer = append(buffer, r.Creator.Bytes()...)
	buffer = appendUint64(buffer, r.TotalParticipants)
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(r.Info)))
	buffer = append(buffer, l[:]...)
	buffer = append(buffer, r.Info...)
	return append(buffer, r.Result...)
}

func unpack(packed []byte) (*Record, error) {
	const fixed = 8 + account.AccountSize + 8 + 2
	if len(packed) < fixed {
		return nil, fault.ErrProposalNotFound
	}
	creator, err := account.FromBytes(packed[8 : 8+account.AccountSize])
	if nil != err {
		return nil, err
	}
	infoLength := int(binary.BigEndian.Uint16(packed[fixed-2 : fixed]))
	if len(packed) < fixed+infoLength {
		return nil, fault.ErrProposalNotFound
	}
	return &Record{
		ID:                binary.BigEndian.Uint64(packed[0:8]),
		Creator:           creator,
		TotalParticipants: binary.BigEndian.Uint64(packed[8+account.AccountSize : 8+account.AccountSize+8]),
		Info:              string(packed[fixed : fixed+infoLength]),
		Result:            string(packed[fixed+infoLength:]),
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
