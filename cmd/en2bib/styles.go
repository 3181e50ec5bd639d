package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarlabs/en2bib/internal/style"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available citation styles",
	Run: func(_ *cobra.Command, _ []string) {
		for _, name := range style.Names() {
			p := style.Lookup(name)
			notes := ""
			if p.SplitPageRange {
				notes = " (renamed fields, split page ranges)"
			} else if p.VenuePrefix != "" {
				notes = fmt.Sprintf(" (venue prefix %q)", p.VenuePrefix)
			}
			fmt.Printf("%-10s%s\n", name, notes)
		}
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
