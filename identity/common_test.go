// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity_test

import (
	"crypto/ecdsa"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/chainclock"
	"github.com/singnet/rejuve-platform-contracts/identity"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

// a key pair acting as one principal
type signer struct {
	key     *ecdsa.PrivateKey
	account account.Account
}

func makeSigner(t *testing.T) signer {
	t.Helper()
	key, err := crypto.GenerateKey()
	if nil != err {
		t.Fatalf("generate key error: %s", err)
	}
	return signer{
		key:     key,
		account: account.FromAddress(crypto.PubkeyToAddress(key.PublicKey)),
	}
}

func (s signer) sign(t *testing.T, digest []byte) account.Signature {
	t.Helper()
	prefixed := crypto.Keccak256(
		[]byte("\x19Ethereum Signed Message:\n32"),
		digest,
	)
	sig, err := crypto.Sign(prefixed, s.key)
	if nil != err {
		t.Fatalf("sign error: %s", err)
	}
	return account.Signature(sig)
}

var admin signer

// bring up the whole stack for one test
func setup(t *testing.T) {
	t.Helper()

	dir, err := os.MkdirTemp("", "rejuve-identity-test")
	if nil != err {
		t.Fatalf("cannot create test directory: %s", err)
	}
	t.Cleanup(func() {
		identity.Finalise()
		sigauth.Finalise()
		mode.Finalise()
		storage.Finalise()
		chainclock.Finalise()
		os.RemoveAll(dir)
	})

	chainclock.Initialise()
	if err := storage.Initialise(filepath.Join(dir, "state.leveldb")); nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}

	admin = makeSigner(t)
	if err := mode.Initialise(admin.account); nil != err {
		t.Fatalf("mode initialise error: %s", err)
	}
	if err := sigauth.Initialise(storage.Pool.ConsumedDigests); nil != err {
		t.Fatalf("sigauth initialise error: %s", err)
	}

	context := makeSigner(t)
	if err := identity.Initialise(context.account); nil != err {
		t.Fatalf("identity initialise error: %s", err)
	}
}

// register an identity for a signer
func register(t *testing.T, s signer, nonce uint64) uint64 {
	t.Helper()
	digest := sigauth.IdentityDigest(common.Hash{}, s.account, "/tokenURIHere", nonce, identity.Context())
	id, err := identity.Create(s.account, common.Hash{}, "/tokenURIHere", nonce, s.sign(t, digest))
	if nil != err {
		t.Fatalf("create identity error: %s", err)
	}
	return id
}
