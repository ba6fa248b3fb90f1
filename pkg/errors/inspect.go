// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import "errors"

// As calls stdlib errors.As.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is calls stdlib errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// Unwrap calls stdlib errors.Unwrap.
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join calls stdlib errors.Join.
func Join(errs ...error) error { return errors.Join(errs...) }

// Code returns the status code of the error. If the error is not an [Error]
// and does not wrap a [Status], Code returns 0.
func Code(err error) Status {
	var err2 *Error
	if As(err, &err2) {
		for err2.Code == UnknownError && err2.Cause != nil {
			err2 = err2.Cause
		}
		return err2.Code
	}

	var s Status
	if As(err, &s) {
		return s
	}
	return 0
}

var trackLocation = false

// EnableLocationTracking records the call site of every error created or
// wrapped after it is called.
func EnableLocationTracking() {
	trackLocation = true
}
