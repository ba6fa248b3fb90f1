// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"io"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

// formatTokens formats an amount in display units with thousands separators,
// followed by the token symbol.
func formatTokens(v *uint256.Int, params *protocol.TokenParams) string {
	whole, frac, hasFrac := strings.Cut(protocol.FormatAmount(v, params.Decimals), ".")
	w, _ := new(big.Int).SetString(whole, 10)
	s := humanize.BigComma(w)
	if hasFrac {
		s += "." + frac
	}
	return s + " " + params.Symbol
}

// newTable returns a borderless, left-aligned table.
func newTable(w io.Writer) *tablewriter.Table {
	tbl := tablewriter.NewWriter(w)
	tbl.SetBorder(false)
	tbl.SetAutoWrapText(false)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetHeaderLine(false)
	tbl.SetColumnSeparator("")
	tbl.SetCenterSeparator("")
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	tbl.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tbl.SetTablePadding("  ")
	tbl.SetNoWhiteSpace(true)
	return tbl
}
