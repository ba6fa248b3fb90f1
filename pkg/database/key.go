// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
)

// KeyHash is the SHA-256 hash of a key's binary encoding.
type KeyHash [32]byte

// Key is a hierarchical database key made of strings, byte strings and
// integers. Values that implement Bytes() []byte are stored as byte strings.
type Key struct {
	values []any
}

// NewKey returns a new key with the given values.
func NewKey(v ...any) *Key {
	return (*Key)(nil).Append(v...)
}

// Len returns the number of elements in the key.
func (k *Key) Len() int {
	if k == nil {
		return 0
	}
	return len(k.values)
}

// Get returns the i'th element.
func (k *Key) Get(i int) any {
	return k.values[i]
}

// Append returns a new key with the given values appended.
func (k *Key) Append(v ...any) *Key {
	l := &Key{values: make([]any, k.Len(), k.Len()+len(v))}
	if k != nil {
		copy(l.values, k.values)
	}
	for _, v := range v {
		l.values = append(l.values, normalize(v))
	}
	return l
}

// AppendKey returns a new key with the values of l appended. If k is nil,
// AppendKey returns l.
func (k *Key) AppendKey(l *Key) *Key {
	if k.Len() == 0 {
		return l
	}
	if l.Len() == 0 {
		return k
	}
	m := &Key{values: make([]any, 0, k.Len()+l.Len())}
	m.values = append(m.values, k.values...)
	m.values = append(m.values, l.values...)
	return m
}

// SliceI returns a key with the first i elements removed.
func (k *Key) SliceI(i int) *Key {
	return &Key{values: k.values[i:]}
}

// HasPrefix returns true if the leading elements of k are equal to p.
func (k *Key) HasPrefix(p *Key) bool {
	if p.Len() > k.Len() {
		return false
	}
	for i := 0; i < p.Len(); i++ {
		if !bytes.Equal(encodePart(k.values[i]), encodePart(p.values[i])) {
			return false
		}
	}
	return true
}

// Equal returns true if k and l have the same elements.
func (k *Key) Equal(l *Key) bool {
	return k.Len() == l.Len() && k.HasPrefix(l)
}

// Hash returns the hash of the key.
func (k *Key) Hash() KeyHash {
	b, _ := k.MarshalBinary()
	return sha256.Sum256(b)
}

func (k *Key) String() string {
	if k.Len() == 0 {
		return "()"
	}
	parts := make([]string, k.Len())
	for i, v := range k.values {
		switch v := v.(type) {
		case []byte:
			parts[i] = hex.EncodeToString(v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ".")
}

const (
	partString byte = 1 + iota
	partBytes
	partInt
	partUint
)

// MarshalBinary encodes the key. Every element is written as a type tag
// followed by its value.
func (k *Key) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	for i := 0; i < k.Len(); i++ {
		buf.Write(encodePart(k.values[i]))
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a key encoded with MarshalBinary.
func (k *Key) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	k.values = k.values[:0]
	for r.Len() > 0 {
		typ, _ := r.ReadByte()
		switch typ {
		case partString, partBytes:
			n, err := binary.ReadUvarint(r)
			if err != nil {
				return errors.EncodingError.WithFormat("decode key: %w", err)
			}
			if n > uint64(r.Len()) {
				return errors.EncodingError.WithFormat("decode key: %w", io.ErrUnexpectedEOF)
			}
			v := make([]byte, n)
			_, _ = r.Read(v)
			if typ == partString {
				k.values = append(k.values, string(v))
			} else {
				k.values = append(k.values, v)
			}

		case partInt:
			v, err := binary.ReadVarint(r)
			if err != nil {
				return errors.EncodingError.WithFormat("decode key: %w", err)
			}
			k.values = append(k.values, v)

		case partUint:
			v, err := binary.ReadUvarint(r)
			if err != nil {
				return errors.EncodingError.WithFormat("decode key: %w", err)
			}
			k.values = append(k.values, v)

		default:
			return errors.EncodingError.WithFormat("decode key: unknown element type %d", typ)
		}
	}
	return nil
}

func normalize(v any) any {
	switch v := v.(type) {
	case string, []byte, int64, uint64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return uint64(v)
	case uint32:
		return uint64(v)
	case [32]byte:
		return v[:]
	case interface{ Bytes() []byte }:
		return v.Bytes()
	case fmt.Stringer:
		return v.String()
	default:
		panic(fmt.Errorf("unsupported key element type %T", v))
	}
}

func encodePart(v any) []byte {
	var b []byte
	switch v := v.(type) {
	case string:
		b = append(b, partString)
		b = binary.AppendUvarint(b, uint64(len(v)))
		b = append(b, v...)
	case []byte:
		b = append(b, partBytes)
		b = binary.AppendUvarint(b, uint64(len(v)))
		b = append(b, v...)
	case int64:
		b = append(b, partInt)
		b = binary.AppendVarint(b, v)
	case uint64:
		b = append(b, partUint)
		b = binary.AppendUvarint(b, v)
	}
	return b
}
