// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

func TestParseAddress(t *testing.T) {
	s := "0x" + strings.Repeat("ab", 32)
	a, err := ParseAddress(s)
	require.NoError(t, err)
	require.Equal(t, s, a.String())

	b, err := ParseAddress(strings.Repeat("ab", 32))
	require.NoError(t, err)
	require.Equal(t, a, b)

	_, err = ParseAddress("0x1234")
	require.ErrorIs(t, err, errors.BadRequest)

	_, err = ParseAddress("0x" + strings.Repeat("zz", 32))
	require.ErrorIs(t, err, errors.BadRequest)

	require.True(t, Address{}.IsZero())
	require.False(t, a.IsZero())
}

func TestAmount(t *testing.T) {
	cases := []struct {
		Text     string
		Decimals uint8
		Units    string
		Format   string
	}{
		{"5", 18, "5000000000000000000", "5"},
		{"1.5", 18, "1500000000000000000", "1.5"},
		{".25", 2, "25", "0.25"},
		{"10.", 0, "10", "10"},
		{"2_000_000", 18, "2000000000000000000000000", "2000000"},
		{"0", 18, "0", "0"},
		{"0.000000000000000001", 18, "1", "0.000000000000000001"},
	}
	for _, c := range cases {
		t.Run(c.Text, func(t *testing.T) {
			v, err := ParseAmount(c.Text, c.Decimals)
			require.NoError(t, err)
			require.Equal(t, c.Units, v.ToBig().String())
			require.Equal(t, c.Format, FormatAmount(v, c.Decimals))
		})
	}

	for _, s := range []string{"", ".", "-1", "+1", "1.2.3", "abc", "1.0000000000000000001"} {
		_, err := ParseAmount(s, 18)
		require.Errorf(t, err, "%q should be rejected", s)
	}

	_, err := ParseAmount("1"+strings.Repeat("0", 80), 0)
	require.ErrorIs(t, err, errors.ArithmeticOverflow)
}

func TestDefaults(t *testing.T) {
	policy := DefaultMintPolicy()
	require.NoError(t, policy.Validate())
	require.Equal(t, "10000000000000000000", policy.LimitPerMint.ToBig().String())
	require.Equal(t, uint64(1), policy.MintLimit.Uint64())

	params := DefaultTokenParams()
	require.NoError(t, params.Validate())
	require.Equal(t, "2000000000000000000000000", params.MaxSupply.ToBig().String())

	require.Error(t, (&MintPolicy{LimitPerMint: uint256.NewInt(1), MintLimit: new(uint256.Int)}).Validate())
	require.Error(t, (&TokenParams{MaxSupply: uint256.NewInt(1), Decimals: 78, Name: "A", Symbol: "A"}).Validate())
}

func TestEqual(t *testing.T) {
	policy := DefaultMintPolicy()
	require.True(t, policy.Equal(DefaultMintPolicy()))
	require.False(t, policy.Equal(&MintPolicy{LimitPerMint: policy.LimitPerMint, MintLimit: uint256.NewInt(2)}))
	require.False(t, policy.Equal(nil))

	params := DefaultTokenParams()
	require.True(t, params.Equal(DefaultTokenParams()))
	other := DefaultTokenParams()
	other.Decimals = 8
	require.False(t, params.Equal(other))
	require.False(t, params.Equal(nil))
}

func TestOperations(t *testing.T) {
	for _, op := range Operations() {
		got, ok := OperationBySelector(op.Selector())
		require.True(t, ok, op.String())
		require.Equal(t, op, got)
	}

	_, ok := OperationByName("transfer")
	require.False(t, ok)
	require.Equal(t, "Operation:99", Operation(99).String())
	require.Len(t, Operations(), 8)
}

func TestCalldata(t *testing.T) {
	addr := MustParseAddress(strings.Repeat("01", 32))
	w := new(Writer)
	w.WriteAddress(addr)
	w.WriteU256(uint256.NewInt(42))
	w.WriteBool(true)
	w.WriteU8(18)
	w.WriteString("OP_PIZZA")
	b, err := w.Bytes()
	require.NoError(t, err)
	require.Len(t, b, 32+32+1+1+2+8)

	r := NewReader(b)
	a, err := r.ReadAddress()
	require.NoError(t, err)
	require.Equal(t, addr, a)
	v, err := r.ReadU256()
	require.NoError(t, err)
	require.Equal(t, uint64(42), v.Uint64())
	ok, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, ok)
	d, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(18), d)
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "OP_PIZZA", s)
	require.NoError(t, r.Done())

	// Truncated input
	_, err = NewReader(b[:10]).ReadAddress()
	require.ErrorIs(t, err, errors.EncodingError)

	// Invalid boolean
	_, err = NewReader([]byte{2}).ReadBool()
	require.ErrorIs(t, err, errors.EncodingError)

	// Trailing data
	require.ErrorIs(t, NewReader([]byte{1}).Done(), errors.EncodingError)
}
