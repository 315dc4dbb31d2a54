package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/keysound/soundbank"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the themes of the sound bank",
	Long:  `Fetch the configured sound bank and list its themes and key categories. The default theme is marked.`,
	RunE:  runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	bank, err := fetchBank(cmd.Context(), cfg.Bank)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatThemes(bank))
	return nil
}

// formatThemes renders one line per theme in document order
func formatThemes(bank *soundbank.Config) string {
	maxLen := 0
	for _, t := range bank.Themes {
		maxLen = max(maxLen, len(t.Name))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Themes in "+bank.BasePath) + "\n\n")
	for _, t := range bank.Themes {
		name := fmt.Sprintf("%-*s", maxLen, t.Name)
		marker := "  "
		if t.Name == bank.DefaultTheme {
			marker = "* "
			name = defaultStyle.Render(name)
		}

		cats := make([]string, len(t.Categories))
		for i, c := range t.Categories {
			cats[i] = fmt.Sprintf("%s(%d)", c.Name, len(c.Assets))
		}
		fmt.Fprintf(&b, "%s%s  %s\n", marker, name, subtleStyle.Render(strings.Join(cats, " ")))
	}
	fmt.Fprintf(&b, "\npreferred category: %s\n", bank.PreferredCategory)
	return b.String()
}
