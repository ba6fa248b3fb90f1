// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// MaxDecimals is the largest supported precision. 10^77 is the largest power
// of ten that fits in 256 bits.
const MaxDecimals = 77

// Unit returns 10^decimals, the number of base units in one whole token.
func Unit(decimals uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
}

// Tokens returns n whole tokens expressed in base units.
func Tokens(n uint64, decimals uint8) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Unit(decimals))
}

// ParseAmount parses a decimal amount such as "1.5" into base units using the
// given precision. A value with more fractional digits than the precision
// allows, a negative value, or a value that does not fit in 256 bits is
// rejected.
func ParseAmount(s string, decimals uint8) (*uint256.Int, error) {
	if decimals > MaxDecimals {
		return nil, errors.BadRequest.WithFormat("precision %d exceeds %d", decimals, MaxDecimals)
	}

	whole, frac, hasFrac := strings.Cut(strings.ReplaceAll(s, "_", ""), ".")
	if whole == "" && (!hasFrac || frac == "") {
		return nil, errors.BadRequest.WithFormat("invalid amount %q", s)
	}
	if len(frac) > int(decimals) {
		return nil, errors.BadRequest.WithFormat("invalid amount %q: more than %d decimal places", s, decimals)
	}
	if strings.HasPrefix(whole, "-") || strings.HasPrefix(whole, "+") {
		return nil, errors.BadRequest.WithFormat("invalid amount %q: sign not allowed", s)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.BadRequest.WithFormat("invalid amount %q", s)
	}

	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.ArithmeticOverflow.WithFormat("amount %q does not fit in 256 bits", s)
	}
	return u, nil
}

// FormatAmount formats base units as a decimal string with the given
// precision. Trailing zeros of the fractional part are removed.
func FormatAmount(v *uint256.Int, decimals uint8) string {
	s := v.ToBig().String()
	if decimals == 0 {
		return s
	}

	if len(s) <= int(decimals) {
		s = strings.Repeat("0", int(decimals)-len(s)+1) + s
	}
	i := len(s) - int(decimals)
	whole, frac := s[:i], strings.TrimRight(s[i:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
