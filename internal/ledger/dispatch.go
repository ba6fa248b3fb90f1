// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

// Call executes the operation identified by the selector and returns the
// encoded result.
func (l *Ledger) Call(caller protocol.Address, selector protocol.Selector, calldata []byte) ([]byte, error) {
	op, ok := protocol.OperationBySelector(selector)
	if !ok {
		return nil, errors.NotFound.WithFormat("unknown operation %v", selector)
	}

	r := protocol.NewReader(calldata)
	w := new(protocol.Writer)
	switch op {
	case protocol.OperationName,
		protocol.OperationSymbol,
		protocol.OperationDecimals,
		protocol.OperationMaximumSupply:
		params, err := l.Params()
		if err != nil {
			return nil, err
		}
		switch op {
		case protocol.OperationName:
			w.WriteString(params.Name)
		case protocol.OperationSymbol:
			w.WriteString(params.Symbol)
		case protocol.OperationDecimals:
			w.WriteU8(params.Decimals)
		case protocol.OperationMaximumSupply:
			w.WriteU256(params.MaxSupply)
		}

	case protocol.OperationTotalSupply:
		supply, err := l.TotalSupply()
		if err != nil {
			return nil, err
		}
		w.WriteU256(supply)

	case protocol.OperationBalanceOf:
		account, err := r.ReadAddress()
		if err != nil {
			return nil, errors.BadRequest.Wrap(err)
		}
		balance, err := l.BalanceOf(account)
		if err != nil {
			return nil, err
		}
		w.WriteU256(balance)

	case protocol.OperationMint:
		to, err := r.ReadAddress()
		if err != nil {
			return nil, errors.BadRequest.Wrap(err)
		}
		value, err := r.ReadU256()
		if err != nil {
			return nil, errors.BadRequest.Wrap(err)
		}
		ok, err := l.Mint(caller, to, value)
		if err != nil {
			return nil, err
		}
		w.WriteBool(ok)

	default:
		return nil, errors.NotFound.WithFormat("operation %v is not supported by the ledger", op)
	}

	err := r.Done()
	if err != nil {
		return nil, errors.BadRequest.Wrap(err)
	}
	return w.Bytes()
}
