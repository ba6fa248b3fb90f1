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
	"gitlab.com/accumulatenetwork/capmint/internal/contract"
	"gitlab.com/accumulatenetwork/capmint/internal/mint"
	"gitlab.com/accumulatenetwork/capmint/internal/run"
	"gitlab.com/accumulatenetwork/capmint/pkg/errors"
	"gitlab.com/accumulatenetwork/capmint/protocol"
)

var cmdMint = &cobra.Command{
	Use:   "mint <address> <amount>",
	Short: "Mint tokens to an account",
	Long:  "Mint tokens to an account. The amount is in display units, for example 2.5.",
	Args:  cobra.ExactArgs(2),
	Run:   mintTokens,
}

var cmdCount = &cobra.Command{
	Use:   "count <address>",
	Short: "Show how many times an account has minted",
	Args:  cobra.ExactArgs(1),
	Run:   showCount,
}

var cmdBalance = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the balance of an account",
	Args:  cobra.ExactArgs(1),
	Run:   showBalance,
}

func init() {
	cmdMain.AddCommand(cmdMint, cmdCount, cmdBalance)
}

func mintTokens(cmd *cobra.Command, args []string) {
	to, err := protocol.ParseAddress(args[0])
	check(err)

	check(withInstance(cmd, func(inst *run.Instance) error {
		c := inst.Contract()
		params, err := c.Params()
		if err != nil {
			return err
		}
		value, err := protocol.ParseAmount(args[1], params.Decimals)
		if err != nil {
			return err
		}

		ok, err := requestMint(c, to, value)
		var limitErr *mint.AmountLimitError
		var capErr *mint.CapReachedError
		switch {
		case errors.As(err, &limitErr):
			return errors.MintLimitExceeded.WithFormat("%s %s exceeds the limit of %s %s per mint", args[1], params.Symbol, protocol.FormatAmount(limitErr.Limit, params.Decimals), params.Symbol)
		case errors.As(err, &capErr):
			return errors.MintCapReached.WithFormat("%v has already minted %v time(s), the maximum allowed", capErr.Account, capErr.Count.ToBig())
		case err != nil:
			return err
		case !ok:
			return errors.NotAllowed.With("the ledger declined to mint")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s to %v\n", color.GreenString("Minted"), protocol.FormatAmount(value, params.Decimals), params.Symbol, to)
		return nil
	}))
}

// requestMint mints through the contract's call interface.
func requestMint(c *contract.Contract, to protocol.Address, value *uint256.Int) (bool, error) {
	w := new(protocol.Writer)
	w.WriteAddress(to)
	w.WriteU256(value)
	calldata, err := w.Bytes()
	if err != nil {
		return false, err
	}

	out, err := c.Call(to, protocol.OperationMint.Selector(), calldata)
	if err != nil {
		return false, err
	}
	return protocol.NewReader(out).ReadBool()
}

func showCount(cmd *cobra.Command, args []string) {
	account, err := protocol.ParseAddress(args[0])
	check(err)

	check(withInstance(cmd, func(inst *run.Instance) error {
		count, err := inst.Contract().MintCount(account)
		if err != nil {
			return err
		}
		limit := inst.Contract().Policy().MintLimit
		fmt.Fprintf(cmd.OutOrStdout(), "%s of %s\n", humanize.BigComma(count.ToBig()), humanize.BigComma(limit.ToBig()))
		return nil
	}))
}

func showBalance(cmd *cobra.Command, args []string) {
	account, err := protocol.ParseAddress(args[0])
	check(err)

	check(withInstance(cmd, func(inst *run.Instance) error {
		c := inst.Contract()
		params, err := c.Params()
		if err != nil {
			return err
		}
		balance, err := c.BalanceOf(account)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", protocol.FormatAmount(balance, params.Decimals), params.Symbol)
		return nil
	}))
}
