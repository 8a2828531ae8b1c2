// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shard_test

import (
	"crypto/ecdsa"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/singnet/rejuve-platform-contracts/account"
	"github.com/singnet/rejuve-platform-contracts/chainclock"
	"github.com/singnet/rejuve-platform-contracts/dataledger"
	"github.com/singnet/rejuve-platform-contracts/identity"
	"github.com/singnet/rejuve-platform-contracts/mode"
	"github.com/singnet/rejuve-platform-contracts/product"
	"github.com/singnet/rejuve-platform-contracts/shard"
	"github.com/singnet/rejuve-platform-contracts/sigauth"
	"github.com/singnet/rejuve-platform-contracts/storage"
)

var dataHashOne = common.Hex2Bytes("622b1092273fe26f6a2c370a5c34a690337e7f802f2fa5006b40790bd3f7d69b")
var dataHashTwo = common.Hex2Bytes("7012f98e24c6b2f609d365c959c99a9bc691d6939cc7162e679fb1226697a56b")

const twoDays = 2 * 24 * 60 * 60

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

func setup(t *testing.T) {
	t.Helper()

	dir, err := os.MkdirTemp("", "rejuve-shard-test")
	if nil != err {
		t.Fatalf("cannot create test directory: %s", err)
	}
	t.Cleanup(func() {
		shard.Finalise()
		product.Finalise()
		dataledger.Finalise()
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
	if err := identity.Initialise(makeSigner(t).account); nil != err {
		t.Fatalf("identity initialise error: %s", err)
	}
	if err := dataledger.Initialise(makeSigner(t).account); nil != err {
		t.Fatalf("dataledger initialise error: %s", err)
	}
	if err := product.Initialise(makeSigner(t).account, account.Account{}); nil != err {
		t.Fatalf("product initialise error: %s", err)
	}
	if err := shard.Initialise(); nil != err {
		t.Fatalf("shard initialise error: %s", err)
	}
}

func register(t *testing.T, s signer, nonce uint64) uint64 {
	t.Helper()
	digest := sigauth.IdentityDigest(common.Hash{}, s.account, "/tokenURIHere", nonce, identity.Context())
	id, err := identity.Create(s.account, common.Hash{}, "/tokenURIHere", nonce, s.sign(t, digest))
	if nil != err {
		t.Fatalf("create identity error: %s", err)
	}
	return id
}

func submit(t *testing.T, s signer, dataHash []byte, nonce uint64) {
	t.Helper()
	digest := sigauth.DataDigest(s.account, dataHash, nonce, dataledger.Context())
	if err := dataledger.Submit(s.account, dataHash, nonce, s.sign(t, digest)); nil != err {
		t.Fatalf("submit error: %s", err)
	}
}

func grant(t *testing.T, s signer, requesterID uint64, dataHash []byte, productUID uint64, nonce uint64) {
	t.Helper()
	digest := sigauth.PermissionDigest(s.account, requesterID, dataHash, productUID, nonce, twoDays, dataledger.Context())
	err := dataledger.GrantPermission(s.account, requesterID, dataHash, productUID, nonce, twoDays, s.sign(t, digest))
	if nil != err {
		t.Fatalf("grant permission error: %s", err)
	}
}

// build a product with two contributed hashes at the given credit
// weights, owned by the returned lab
func prepareProduct(t *testing.T, productUID uint64, creditOne uint64, creditTwo uint64) (ownerOne signer, ownerTwo signer, lab signer) {
	t.Helper()

	ownerOne = makeSigner(t)
	ownerTwo = makeSigner(t)
	lab = makeSigner(t)

	register(t, ownerOne, 1)
	register(t, ownerTwo, 2)
	labID := register(t, lab, 3)

	submit(t, ownerOne, dataHashOne, 4)
	submit(t, ownerTwo, dataHashTwo, 5)

	grant(t, ownerOne, labID, dataHashOne, productUID, 6)
	grant(t, ownerTwo, labID, dataHashTwo, productUID, 7)

	err := product.Create(lab.account, labID, productUID, "/ProductURI", [][]byte{dataHashOne, dataHashTwo}, []uint64{creditOne, creditTwo}, nil)
	if nil != err {
		t.Fatalf("create product error: %s", err)
	}
	return
}
