package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/clipboard"
	"github.com/scholarlabs/en2bib/internal/config"
	"github.com/scholarlabs/en2bib/internal/convert"
)

var convertFlags struct {
	style          string
	escapeLatex    bool
	stringDefs     bool
	biblatexFields bool
	enhance        bool
	abstract       bool
	keywords       bool
	notes          bool
	customFields   []string
	apiTimeoutMs   int
	apiDelayMs     int
	output         string
	copyOut        bool
	progress       bool
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.xml>",
	Short: "Convert an EndNote XML export to BibTeX",
	Long: `Convert reads an EndNote-style XML export and writes BibTeX to stdout
(or to a file with -o). Use "-" to read from stdin.

Warnings and statistics go to stderr; the exit code is 0 whenever the run
completed, even if individual records were skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	// Load .env if present (for S2_API_KEY, CROSSREF_MAILTO)
	_ = godotenv.Load()

	f := convertCmd.Flags()
	f.StringVar(&convertFlags.style, "style", "standard", "Citation style: standard, acm, ieee, apa, harvard, chicago, biblatex")
	f.BoolVar(&convertFlags.escapeLatex, "escape-latex", true, "Escape LaTeX special characters in field values")
	f.BoolVar(&convertFlags.stringDefs, "string-defs", false, "Emit @string definitions for journals and publishers")
	f.BoolVar(&convertFlags.biblatexFields, "biblatex-fields", false, "Use BibLaTeX field names")
	f.BoolVar(&convertFlags.enhance, "enhance", false, "Query Semantic Scholar and CrossRef to fill missing fields")
	f.BoolVar(&convertFlags.abstract, "abstract", false, "Include abstract fields")
	f.BoolVar(&convertFlags.keywords, "keywords", false, "Include keyword fields")
	f.BoolVar(&convertFlags.notes, "notes", false, "Include note fields")
	f.StringSliceVar(&convertFlags.customFields, "custom-field", nil, "Extra field to extract (repeatable)")
	f.IntVar(&convertFlags.apiTimeoutMs, "api-timeout", 0, "Provider request timeout in milliseconds")
	f.IntVar(&convertFlags.apiDelayMs, "api-delay", 0, "Minimum delay between provider requests in milliseconds")
	f.StringVarP(&convertFlags.output, "output", "o", "", "Write output to a file instead of stdout")
	f.BoolVar(&convertFlags.copyOut, "copy", false, "Copy the output to the system clipboard")
	f.BoolVar(&convertFlags.progress, "progress", false, "Report per-record progress on stderr")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}

	xmlText, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	// Ctrl-C cancels between records; entries produced so far are kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := func(current, total int, message string) bool {
		if ctx.Err() != nil {
			return false
		}
		if convertFlags.progress {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, message)
		}
		return true
	}

	result := convert.New(opts).Convert(ctx, xmlText, progress)

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	fmt.Fprintf(os.Stderr, "%d entries, %d warnings (%s)\n",
		result.EntryCount, len(result.Warnings), result.ProcessingTime.Round(time.Millisecond))

	if err := writeOutput(result.Output); err != nil {
		return err
	}
	if convertFlags.copyOut {
		if err := clipboard.Copy(result.Output); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: copy to clipboard failed: %v\n", err)
		}
	}

	if result.EntryCount == 0 && !result.Cancelled {
		os.Exit(ExitDataError)
	}
	return nil
}

// buildOptions layers defaults, the config file, and explicitly set flags.
func buildOptions(cmd *cobra.Command) (bib.Options, error) {
	file, err := config.Load("")
	if err != nil {
		return bib.Options{}, err
	}
	opts := file.Apply(bib.DefaultOptions())

	flags := cmd.Flags()
	if flags.Changed("style") {
		opts.Style = convertFlags.style
	}
	if flags.Changed("escape-latex") {
		opts.EscapeLatex = convertFlags.escapeLatex
	}
	if flags.Changed("string-defs") {
		opts.StringDefs = convertFlags.stringDefs
	}
	if flags.Changed("biblatex-fields") {
		opts.BiblatexFields = convertFlags.biblatexFields
	}
	if flags.Changed("enhance") {
		opts.Enhance = convertFlags.enhance
	}
	if flags.Changed("abstract") {
		opts.IncludeAbstract = convertFlags.abstract
	}
	if flags.Changed("keywords") {
		opts.IncludeKeywords = convertFlags.keywords
	}
	if flags.Changed("notes") {
		opts.IncludeNotes = convertFlags.notes
	}
	if flags.Changed("custom-field") {
		opts.CustomFields = convertFlags.customFields
	}
	if flags.Changed("api-timeout") {
		opts.APITimeout = time.Duration(convertFlags.apiTimeoutMs) * time.Millisecond
	}
	if flags.Changed("api-delay") {
		opts.APIDelay = time.Duration(convertFlags.apiDelayMs) * time.Millisecond
	}
	return opts, nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func writeOutput(text string) error {
	if convertFlags.output == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(convertFlags.output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
