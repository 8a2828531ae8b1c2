// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type AccessDeniedError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAgreementNotFound       = NotFoundError("agreement not found")
	ErrAlreadyInitialised      = ProcessError("already initialised")
	ErrAlreadyListed           = ExistsError("shards listed already")
	ErrAlreadyRegistered       = ExistsError("one identity per principal")
	ErrDataAlreadyExists       = ExistsError("data hash already submitted")
	ErrDataNotFound            = NotFoundError("data hash not found")
	ErrDataNotPermitted        = AccessDeniedError("data not permitted")
	ErrEmptyProposal           = InvalidError("proposal info cannot be empty")
	ErrHalted                  = ProcessError("operations are halted")
	ErrIdentityNotFound        = NotFoundError("identity not found")
	ErrInsufficientAllowance   = InvalidError("insufficient token allowance")
	ErrInsufficientBalance     = InvalidError("insufficient balance")
	ErrInvalidSignature        = InvalidError("invalid signature")
	ErrLengthMismatch          = InvalidError("data and credit lengths differ")
	ErrLockPeriodActive        = AccessDeniedError("transfer locked: exceeds half of holding")
	ErrNoProductEarning        = NotFoundError("no product earning")
	ErrNoShardBalance          = NotFoundError("no shard balance")
	ErrNoUserEarning           = NotFoundError("no user earning")
	ErrNonceAlreadyUsed        = ExistsError("nonce used already")
	ErrNotAdministrator        = AccessDeniedError("caller is not the administrator")
	ErrNotDataOwner            = AccessDeniedError("not a data owner")
	ErrNotIdentityOwner        = AccessDeniedError("caller is not owner of identity")
	ErrNotInitialised          = ProcessError("not initialised")
	ErrNotListed               = NotFoundError("shards not listed")
	ErrNotRegistered           = AccessDeniedError("not registered")
	ErrOnlyProductCreator      = AccessDeniedError("only product creator")
	ErrPhaseOutOfOrder         = ProcessError("distribution phase out of order")
	ErrPercentOverflow         = InvalidError("percentages exceed one hundred")
	ErrProductAlreadyExists    = ExistsError("product uid already exists")
	ErrProductNotFound         = NotFoundError("product not found")
	ErrProposalNotFound        = NotFoundError("proposal not found")
	ErrProposalTooLong         = InvalidError("proposal info too long")
	ErrShardConfigNotFound     = NotFoundError("shard configuration not found")
	ErrSignatureAlreadyUsed    = ExistsError("signature used already")
	ErrSignerIsZero            = InvalidError("signer cannot be zero")
	ErrTransactionInUse        = ProcessError("transaction already in use")
	ErrZeroAmount              = InvalidError("zero amount")
	ErrZeroLockPeriod          = InvalidError("lock period cannot be zero")
	ErrZeroParticipants        = InvalidError("total participants cannot be zero")
	ErrZeroPercent             = InvalidError("percentage cannot be zero")
	ErrZeroPrice               = InvalidError("price cannot be zero")
	ErrZeroPrincipal           = InvalidError("zero principal")
	ErrZeroTargetSupply        = InvalidError("target supply cannot be zero")
	ErrZeroUnits               = InvalidError("total units cannot be zero")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AccessDeniedError) Error() string { return string(e) }
func (e ExistsError) Error() string       { return string(e) }
func (e InvalidError) Error() string      { return string(e) }
func (e NotFoundError) Error() string     { return string(e) }
func (e ProcessError) Error() string      { return string(e) }

// determine the class of an error
func IsErrAccessDenied(e error) bool { _, ok := e.(AccessDeniedError); return ok }
func IsErrExists(e error) bool       { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool      { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool     { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool      { _, ok := e.(ProcessError); return ok }
