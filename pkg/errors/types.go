// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"fmt"
	"strings"
)

// Status is a request status code.
type Status uint64

const (
	// OK means the request completed successfully.
	OK Status = 200

	// BadRequest means the request was malformed.
	BadRequest Status = 400

	// Unauthorized means the caller is not authorized to perform the operation.
	Unauthorized Status = 401

	// NotFound means a record or operation could not be found.
	NotFound Status = 404

	// NotAllowed means the requested action is not allowed.
	NotAllowed Status = 405

	// Conflict means the request conflicts with existing state.
	Conflict Status = 409

	// MintLimitExceeded means the requested amount exceeds the per-call mint
	// limit.
	MintLimitExceeded Status = 420

	// MintCapReached means the account has used all of its mints.
	MintCapReached Status = 421

	// SupplyLimitExceeded means the operation would push the total supply
	// past the maximum supply.
	SupplyLimitExceeded Status = 422

	// InternalError means an internal error occurred.
	InternalError Status = 500

	// UnknownError means an unknown error occurred.
	UnknownError Status = 501

	// EncodingError means encoding or decoding failed.
	EncodingError Status = 502

	// ArithmeticOverflow means a checked arithmetic operation overflowed.
	ArithmeticOverflow Status = 503

	// NotReady means the service is not ready.
	NotReady Status = 504
)

var statusNames = map[Status]string{
	OK:                  "ok",
	BadRequest:          "badRequest",
	Unauthorized:        "unauthorized",
	NotFound:            "notFound",
	NotAllowed:          "notAllowed",
	Conflict:            "conflict",
	MintLimitExceeded:   "mintLimitExceeded",
	MintCapReached:      "mintCapReached",
	SupplyLimitExceeded: "supplyLimitExceeded",
	InternalError:       "internalError",
	UnknownError:        "unknownError",
	EncodingError:       "encodingError",
	ArithmeticOverflow:  "arithmeticOverflow",
	NotReady:            "notReady",
}

// String returns the name of the status.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status:%d", uint64(s))
}

// StatusByName returns the named status.
func StatusByName(name string) (Status, bool) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, true
		}
	}
	return 0, false
}

// Error is an error with a status code, an optional cause, and an optional
// call stack.
type Error struct {
	Message   string
	Code      Status
	Cause     *Error
	CallStack []*CallSite
}

// CallSite is the location an error was created or wrapped at.
type CallSite struct {
	FuncName string
	File     string
	Line     int64
}
