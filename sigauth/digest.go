// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigauth

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/singnet/rejuve-platform-contracts/account"
)

// digest builders mirror the off-chain signer exactly: tightly packed
// field bytes (no lengths, no padding except uint256 values) hashed
// with keccak-256.  field order is part of the schema and must not
// change

// uint256 values occupy a full 32 byte word
func appendUint256(message []byte, n uint64) []byte {
	var word [32]byte
	binary.BigEndian.PutUint64(word[24:], n)
	return append(message, word[:]...)
}

func appendAccount(message []byte, a account.Account) []byte {
	return append(message, a.Bytes()...)
}

// IdentityDigest - createIdentity: kyc ‖ owner ‖ metadataURI ‖ nonce ‖ context
func IdentityDigest(kyc common.Hash, owner account.Account, metadataURI string, nonce uint64, context account.Account) []byte {
	message := append([]byte{}, kyc[:]...)
	message = appendAccount(message, owner)
	message = append(message, metadataURI...)
	message = appendUint256(message, nonce)
	message = appendAccount(message, context)
	return crypto.Keccak256(message)
}

// DataDigest - submitData: owner ‖ dataHash ‖ nonce ‖ context
func DataDigest(owner account.Account, dataHash []byte, nonce uint64, context account.Account) []byte {
	message := appendAccount([]byte{}, owner)
	message = append(message, dataHash...)
	message = appendUint256(message, nonce)
	message = appendAccount(message, context)
	return crypto.Keccak256(message)
}

// PermissionDigest - grantPermission:
// owner ‖ requesterID ‖ dataHash ‖ productUID ‖ nonce ‖ expirationSeconds ‖ context
func PermissionDigest(owner account.Account, requesterID uint64, dataHash []byte, productUID uint64, nonce uint64, expirationSeconds uint64, context account.Account) []byte {
	message := appendAccount([]byte{}, owner)
	message = appendUint256(message, requesterID)
	message = append(message, dataHash...)
	message = appendUint256(message, productUID)
	message = appendUint256(message, nonce)
	message = appendUint256(message, expirationSeconds)
	message = appendAccount(message, context)
	return crypto.Keccak256(message)
}

// AgreementDigest - distributor agreement: distributor ‖ agreementHash ‖ nonce ‖ context
func AgreementDigest(distributor account.Account, agreementHash []byte, nonce uint64, context account.Account) []byte {
	message := appendAccount([]byte{}, distributor)
	message = append(message, agreementHash...)
	message = appendUint256(message, nonce)
	message = appendAccount(message, context)
	return crypto.Keccak256(message)
}

// CouponDigest - admin coupon: admin ‖ user ‖ context ‖ couponBps ‖ nonce
func CouponDigest(admin account.Account, user account.Account, context account.Account, couponBps uint64, nonce uint64) []byte {
	message := appendAccount([]byte{}, admin)
	message = appendAccount(message, user)
	message = appendAccount(message, context)
	message = appendUint256(message, couponBps)
	message = appendUint256(message, nonce)
	return crypto.Keccak256(message)
}

// ProductDigest - credit attestation:
// productUID ‖ nonce ‖ productURI ‖ attester ‖ concatHash ‖ credits ‖ caller ‖ context
func ProductDigest(productUID uint64, nonce uint64, productURI string, attester account.Account, concatHash common.Hash, credits []uint64, caller account.Account, context account.Account) []byte {
	message := appendUint256([]byte{}, productUID)
	message = appendUint256(message, nonce)
	message = append(message, productURI...)
	message = appendAccount(message, attester)
	message = append(message, concatHash[:]...)
	for _, credit := range credits {
		message = appendUint256(message, credit)
	}
	message = appendAccount(message, caller)
	message = appendAccount(message, context)
	return crypto.Keccak256(message)
}

// ConcatenatedDataHash - canonical hash over a set of data hashes
//
// keccak-256 of the ABI encoding of the hashes as a bytes[] value, so
// any off-chain encoder produces the identical digest
func ConcatenatedDataHash(dataHashes [][]byte) (common.Hash, error) {
	bytesArray, err := abi.NewType("bytes[]", "", nil)
	if nil != err {
		return common.Hash{}, err
	}
	arguments := abi.Arguments{{Type: bytesArray}}
	encoded, err := arguments.Pack(dataHashes)
	if nil != err {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}
