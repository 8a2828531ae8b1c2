// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - environment backed settings
//
// settings come from the process environment, optionally seeded from
// a dotenv file; every accessor has a usable default so an embedding
// process can start with no configuration at all
package configuration

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/singnet/rejuve-platform-contracts/account"
)

// environment variable names
const (
	dataDirectoryEnv = "REJUVE_DATA_DIRECTORY"
	attesterEnv      = "REJUVE_ATTESTER_ADDRESS"
	adminEnv         = "REJUVE_ADMIN_ADDRESS"
	chainModeEnv     = "REJUVE_CHAIN_MODE"
)

// chain modes
const (
	Local   = "local"
	Testing = "testing"
	Live    = "live"
)

// Load - seed the environment from a dotenv file
//
// a missing file is not an error: the process environment alone is a
// valid configuration
func Load(path string) error {
	err := godotenv.Load(path)
	if nil != err && os.IsNotExist(err) {
		return nil
	}
	return err
}

// DataDirectory - where the state database lives
func DataDirectory() string {
	if dir := os.Getenv(dataDirectoryEnv); "" != dir {
		return dir
	}
	return "data"
}

// AttesterAddress - the trusted attester, zero when unset
func AttesterAddress() account.Account {
	return addressFromEnv(attesterEnv)
}

// AdminAddress - the platform administrator, zero when unset
func AdminAddress() account.Account {
	return addressFromEnv(adminEnv)
}

// ChainMode - one of local, testing or live
func ChainMode() string {
	switch m := strings.ToLower(os.Getenv(chainModeEnv)); m {
	case Testing, Live:
		return m
	default:
		return Local
	}
}

func addressFromEnv(name string) account.Account {
	value := os.Getenv(name)
	if "" == value {
		return account.Account{}
	}
	a, err := account.FromHex(value)
	if nil != err {
		return account.Account{}
	}
	return a
}
