// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2024 Rejuve.AI
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sigauth - signature based authorisation
//
// every state mutating entry point is authorised by an off-chain
// signature over a canonical digest of the call's fields, a nonce and
// the receiving component's context address.  a digest is accepted at
// most once: on success it is recorded in the consumed-digest pool
// inside the caller's transaction, so the consumption rolls back
// together with the rest of the call on any later failure
package sigauth
