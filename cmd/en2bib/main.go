// Package main provides the en2bib CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "en2bib",
	Short: "Convert EndNote XML exports to BibTeX/BibLaTeX",
	Long: `en2bib converts bibliographic records from EndNote-style XML exports
into BibTeX or BibLaTeX text.

Records are located heuristically inside arbitrary XML shapes, fields are
extracted with fallback selectors, and entries can optionally be enriched
with metadata from Semantic Scholar and CrossRef.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
