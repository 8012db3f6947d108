package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List tokens owned by ACCOUNT_ID",
	Args:  cobra.NoArgs,
	RunE:  runTokens,
}

var bidsCmd = &cobra.Command{
	Use:   "bids <tokenId>",
	Short: "List open bids on a token from the market contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runBids,
}

var burnCmd = &cobra.Command{
	Use:   "burn <tokenId>",
	Short: "Permanently burn a token",
	Args:  cobra.ExactArgs(1),
	RunE:  runBurn,
}

var acceptBidCmd = &cobra.Command{
	Use:   "accept-bid <tokenId> <bidder>",
	Short: "Accept an open bid on a token",
	Long: `Accepts the bidder's current offer on the token. Whether the bid is still
open is decided by the market contract; a stale bid is reported as a chain
rejection.`,
	Args: cobra.ExactArgs(2),
	RunE: runAcceptBid,
}

func runTokens(cmd *cobra.Command, args []string) error {
	if cfg.AccountID == "" {
		return errors.New("tokens: ACCOUNT_ID is empty")
	}
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	tokens, err := c.Contract.TokensForOwner(cmd.Context(), cfg.AccountID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no tokens owned by %s\n", cfg.AccountID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tMEDIA")
	for _, t := range tokens {
		fmt.Fprintf(w, "%s\t%s\n", t.ID, t.MediaURL())
	}
	return w.Flush()
}

func runBids(cmd *cobra.Command, args []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	bids, err := c.Ownership.Bids(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(bids) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no open bids on %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BIDDER\tAMOUNT (yocto)")
	for _, b := range bids {
		fmt.Fprintf(w, "%s\t%s\n", b.BidderAccountID, b.Amount)
	}
	return w.Flush()
}

func runBurn(cmd *cobra.Command, args []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Ownership.Burn(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "burned %s\n", args[0])
	return nil
}

func runAcceptBid(cmd *cobra.Command, args []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Ownership.AcceptBid(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "accepted bid from %s on %s\n", args[1], args[0])
	return nil
}
