package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
	"github.com/curaOS/Creative-Project/internal/domain/royalty"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the contract metadata and creator royalty",
	Long: `Reads the contract metadata from the indexer (INDEXER_URL), or directly
from the contract view when no indexer is configured, and shows the royalty
beneficiary and creator share.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	c, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	var (
		md     contract.Metadata
		source string
	)
	if c.Indexer != nil {
		info, err := c.Indexer.ContractMetadata(cmd.Context(), cfg.NFTContractID)
		if err != nil {
			return err
		}
		md, source = info.Metadata(), "indexer"
	} else {
		md, err = c.Contract.ReadMetadata(cmd.Context())
		if err != nil {
			return err
		}
		source = "contract"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "contract\t%s\n", cfg.NFTContractID)
	fmt.Fprintf(w, "source\t%s\n", source)

	split, err := royalty.Resolve(md)
	if err != nil {
		fmt.Fprintf(w, "royalty\tunavailable (%v)\n", err)
	} else {
		fmt.Fprintf(w, "beneficiary\t%s\n", split.BeneficiaryID)
		fmt.Fprintf(w, "creator share\t%d\n", split.DisplayShare())
	}

	if price, ok := md.MintPrice.Get(); ok {
		fmt.Fprintf(w, "mint price\t%s yocto\n", price)
	}
	for _, f := range []struct {
		name string
		v    contract.Field[string]
	}{
		{"packages_script", md.PackagesScript},
		{"render_script", md.RenderScript},
		{"style_css", md.StyleCSS},
	} {
		if s, ok := f.v.Get(); ok {
			fmt.Fprintf(w, "%s\t%d bytes\n", f.name, len(s))
		} else {
			fmt.Fprintf(w, "%s\tmissing\n", f.name)
		}
	}
	return w.Flush()
}
