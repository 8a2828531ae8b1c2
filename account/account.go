// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - principals and signature recovery
//
// a principal is a 20 byte secp256k1 derived address; signatures are
// 65 byte r‖s‖v values over a keccak-256 digest wrapped with the
// standard signed-message prefix used by off-chain wallets
package account

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/singnet/rejuve-platform-contracts/fault"
)

// AccountSize - length of a packed principal
const AccountSize = common.AddressLength

// Account - a principal identified by its address
type Account struct {
	address common.Address
}

// zero value for comparisons
var zeroAccount Account

// FromAddress - wrap an address
func FromAddress(address common.Address) Account {
	return Account{address: address}
}

// FromBytes - principal from a packed 20 byte value
func FromBytes(b []byte) (Account, error) {
	if AccountSize != len(b) {
		return Account{}, fault.ErrZeroPrincipal
	}
	return Account{address: common.BytesToAddress(b)}, nil
}

// FromHex - principal from its usual hex form
func FromHex(s string) (Account, error) {
	if !common.IsHexAddress(s) {
		return Account{}, fault.ErrZeroPrincipal
	}
	return Account{address: common.HexToAddress(s)}, nil
}

// Address - the underlying address
func (account Account) Address() common.Address {
	return account.address
}

// Bytes - packed form for digests and storage keys
func (account Account) Bytes() []byte {
	return account.address.Bytes()
}

// IsZero - true for the null principal
func (account Account) IsZero() bool {
	return account == zeroAccount
}

// String - checksummed hex form
func (account Account) String() string {
	return account.address.Hex()
}

// MarshalText - for JSON fixtures
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.address.Hex()), nil
}

// UnmarshalText - for JSON fixtures
func (account *Account) UnmarshalText(s []byte) error {
	a, err := FromHex(string(s))
	if nil != err {
		return err
	}
	*account = a
	return nil
}

// RecoverPrincipal - recover the signing principal of a digest
//
// the digest is the canonical keccak-256 of the packed message fields;
// the wallet prefix is applied here so callers only ever deal with the
// canonical digest
func RecoverPrincipal(digest []byte, signature Signature) (Account, error) {
	if SignatureSize != len(signature) {
		return Account{}, fault.ErrInvalidSignature
	}

	// wallets sign keccak256("\x19Ethereum Signed Message:\n32" ‖ digest)
	prefixed := crypto.Keccak256(
		[]byte("\x19Ethereum Signed Message:\n32"),
		digest,
	)

	sig := make([]byte, SignatureSize)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27 // wire form uses 27/28
	}
	if sig[64] > 1 {
		return Account{}, fault.ErrInvalidSignature
	}

	publicKey, err := crypto.SigToPub(prefixed, sig)
	if nil != err {
		return Account{}, fault.ErrInvalidSignature
	}
	return Account{address: crypto.PubkeyToAddress(*publicKey)}, nil
}

// CheckSignature - ensure a digest was signed by this principal
func (account Account) CheckSignature(digest []byte, signature Signature) error {
	recovered, err := RecoverPrincipal(digest, signature)
	if nil != err {
		return err
	}
	if !bytes.Equal(recovered.Bytes(), account.Bytes()) {
		return fault.ErrInvalidSignature
	}
	return nil
}
