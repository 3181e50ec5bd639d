// Package config loads conversion defaults from the user's config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scholarlabs/en2bib/internal/bib"
)

// File represents ~/.config/en2bib/config.yml. Every field is optional;
// flags override anything set here. Secrets (S2_API_KEY, CROSSREF_MAILTO)
// come from the environment, not this file.
type File struct {
	Style           string   `yaml:"style,omitempty"`
	EscapeLatex     *bool    `yaml:"escape_latex,omitempty"`
	StringDefs      *bool    `yaml:"string_definitions,omitempty"`
	BiblatexFields  *bool    `yaml:"biblatex_fields,omitempty"`
	Enhance         *bool    `yaml:"enhance,omitempty"`
	IncludeAbstract *bool    `yaml:"include_abstract,omitempty"`
	IncludeKeywords *bool    `yaml:"include_keywords,omitempty"`
	IncludeNotes    *bool    `yaml:"include_notes,omitempty"`
	CustomFields    []string `yaml:"custom_fields,omitempty"`
	APITimeoutMs    int      `yaml:"api_timeout_ms,omitempty"`
	APIDelayMs      int      `yaml:"api_delay_ms,omitempty"`
}

const (
	configDir  = "en2bib"
	configFile = "config.yml"
)

// Path returns the config file path. Respects XDG_CONFIG_HOME, defaults to
// ~/.config/en2bib/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, configDir, configFile)
}

// Load reads the config file. A missing file is not an error; it yields the
// zero File so defaults apply.
func Load(path string) (File, error) {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("reading config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing config: %w", err)
	}
	return f, nil
}

// Apply overlays the file's settings onto a base options value. Unset
// fields leave the base untouched.
func (f File) Apply(base bib.Options) bib.Options {
	if f.Style != "" {
		base.Style = f.Style
	}
	applyBool(&base.EscapeLatex, f.EscapeLatex)
	applyBool(&base.StringDefs, f.StringDefs)
	applyBool(&base.BiblatexFields, f.BiblatexFields)
	applyBool(&base.Enhance, f.Enhance)
	applyBool(&base.IncludeAbstract, f.IncludeAbstract)
	applyBool(&base.IncludeKeywords, f.IncludeKeywords)
	applyBool(&base.IncludeNotes, f.IncludeNotes)
	if len(f.CustomFields) > 0 {
		base.CustomFields = f.CustomFields
	}
	if f.APITimeoutMs > 0 {
		base.APITimeout = time.Duration(f.APITimeoutMs) * time.Millisecond
	}
	if f.APIDelayMs > 0 {
		base.APIDelay = time.Duration(f.APIDelayMs) * time.Millisecond
	}
	return base
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
