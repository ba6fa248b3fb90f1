// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/holiman/uint256"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// Writer encodes call arguments and results. Amounts are 32 byte big-endian
// integers, addresses are 32 bytes, booleans are a single byte, and strings are
// prefixed with a 16-bit big-endian length.
type Writer struct {
	buf bytes.Buffer
	err error
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteU256(v *uint256.Int) {
	b := v.Bytes32()
	w.buf.Write(b[:])
}

func (w *Writer) WriteAddress(v Address) {
	w.buf.Write(v[:])
}

func (w *Writer) WriteString(v string) {
	if len(v) > math.MaxUint16 {
		w.err = errors.EncodingError.WithFormat("string of length %d is too long", len(v))
		return
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(len(v)))
	w.buf.Write(b[:])
	w.buf.WriteString(v)
}

// Bytes returns the encoded data or the first error.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// Reader decodes call arguments and results written by a [Writer].
type Reader struct {
	r *bytes.Reader
}

func NewReader(b []byte) *Reader {
	return &Reader{bytes.NewReader(b)}
}

func (r *Reader) read(n int, what string) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(r.r, b)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("read %s: %w", what, err)
	}
	return b, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.read(1, "bool")
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.EncodingError.WithFormat("read bool: invalid value %d", b[0])
	}
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.read(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU256() (*uint256.Int, error) {
	b, err := r.read(32, "u256")
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (r *Reader) ReadAddress() (Address, error) {
	var a Address
	b, err := r.read(AddressLength, "address")
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.read(2, "string length")
	if err != nil {
		return "", err
	}
	b, err = r.read(int(binary.BigEndian.Uint16(b)), "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Done returns an error if there is unread data.
func (r *Reader) Done() error {
	if r.r.Len() > 0 {
		return errors.EncodingError.WithFormat("%d bytes of trailing data", r.r.Len())
	}
	return nil
}
