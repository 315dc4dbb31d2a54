package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check a sound bank document",
	Long: `Fetch a sound bank and run the document checks: path, default theme, preferred
category and asset lists, in that order. Exits non-zero on the first failure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	source := cfg.Bank
	if len(args) == 1 {
		source = args[0]
	}

	bank, err := fetchBank(cmd.Context(), source)
	out := cmd.OutOrStdout()
	if err != nil {
		fmt.Fprintf(out, "%s %s: %v\n", errorStyle.Render("failed"), source, err)
		return err
	}

	assets := 0
	for _, t := range bank.Themes {
		for _, c := range t.Categories {
			assets += len(c.Assets)
		}
	}
	fmt.Fprintf(out, "%s %s: %d themes, %d assets, default %s\n",
		okStyle.Render("ok"), source, len(bank.Themes), assets, bank.DefaultTheme)
	return nil
}
