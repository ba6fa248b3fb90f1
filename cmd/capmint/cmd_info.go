// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/capmint/internal/run"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

var cmdInfo = &cobra.Command{
	Use:   "info",
	Short: "Show the token parameters, mint policy, and supply",
	Args:  cobra.NoArgs,
	Run:   showInfo,
}

var cmdIsOwner = &cobra.Command{
	Use:   "is-owner <address>",
	Short: "Check whether an address is an owner",
	Args:  cobra.ExactArgs(1),
	Run:   isOwner,
}

var cmdSelectors = &cobra.Command{
	Use:   "selectors",
	Short: "List the operations and their selectors",
	Args:  cobra.NoArgs,
	Run:   listSelectors,
}

func init() {
	cmdMain.AddCommand(cmdInfo, cmdIsOwner, cmdSelectors)
}

func showInfo(cmd *cobra.Command, _ []string) {
	var params *protocol.TokenParams
	var supply *uint256.Int
	var policy *protocol.MintPolicy
	check(withInstance(cmd, func(inst *run.Instance) error {
		c := inst.Contract()
		policy = c.Policy()
		var err error
		params, err = c.Params()
		if err != nil {
			return err
		}
		supply, err = c.TotalSupply()
		return err
	}))

	tbl := newTable(cmd.OutOrStdout())
	tbl.AppendBulk([][]string{
		{color.HiBlueString("Name"), params.Name},
		{color.HiBlueString("Symbol"), params.Symbol},
		{color.HiBlueString("Decimals"), fmt.Sprint(params.Decimals)},
		{color.HiBlueString("Total supply"), formatTokens(supply, params)},
		{color.HiBlueString("Maximum supply"), formatTokens(params.MaxSupply, params)},
		{color.HiBlueString("Limit per mint"), formatTokens(policy.LimitPerMint, params)},
		{color.HiBlueString("Mints per account"), humanize.BigComma(policy.MintLimit.ToBig())},
	})
	tbl.Render()
}

func isOwner(cmd *cobra.Command, args []string) {
	address, err := protocol.ParseAddress(args[0])
	check(err)

	check(withInstance(cmd, func(inst *run.Instance) error {
		out, err := inst.Contract().Call(address, protocol.OperationIsAddressOwner.Selector(), address[:])
		if err != nil {
			return err
		}
		ok, err := protocol.NewReader(out).ReadBool()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	}))
}

func listSelectors(cmd *cobra.Command, _ []string) {
	tbl := newTable(cmd.OutOrStdout())
	tbl.SetHeader([]string{"Selector", "Operation"})
	for _, op := range protocol.Operations() {
		tbl.Append([]string{op.Selector().String(), op.String()})
	}
	tbl.Render()
}
