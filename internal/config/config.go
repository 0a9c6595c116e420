// Package config holds the preview settings: which files to open, how many
// rows to show and how to log.
//
// Settings come from built-in defaults, then an optional INI file, then
// command-line overrides applied by the caller.
package config

import (
	"fmt"
	"strings"

	"github.com/nconklindev/sheetpeek/internal/logging"
	"github.com/nconklindev/sheetpeek/internal/reader"
	"github.com/nconklindev/sheetpeek/internal/types"

	"gopkg.in/ini.v1"
)

// DefaultDirectory is where the price sheets were originally kept.
const DefaultDirectory = "/home/matheus/Área de trabalho/ERP-Geral/revestimentos/planilhas"

// DefaultFiles are the price sheets previewed when nothing else is configured.
var DefaultFiles = []string{
	"BOUTIQUE BRASIL 2025 - VAREJO PIERINI.xlsx",
	"Tabela Preços Castelli - Tab01 - +70m2.xlsx",
	"Tabela Preço Embramaco Porcelanato - Tab01_Nova Politica_Jan2025.xls",
}

type Config struct {
	Preview Preview
	Log     Log
}

type Preview struct {
	Directory string   `ini:"directory"`
	Rows      int      `ini:"rows"`
	Files     []string `ini:"-"`
}

type Log struct {
	Level  string `ini:"level"`
	Format string `ini:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	files := make([]string, len(DefaultFiles))
	copy(files, DefaultFiles)

	return &Config{
		Preview: Preview{
			Directory: DefaultDirectory,
			Rows:      reader.DefaultRowLimit,
			Files:     files,
		},
		Log: Log{
			Level:  "error",
			Format: "text",
		},
	}
}

// Load reads an INI file on top of the defaults. Keys missing from the file
// keep their default values. The file key may repeat; its values replace the
// default file list in order.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:        true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := file.Section("preview").MapTo(&cfg.Preview); err != nil {
		return nil, fmt.Errorf("config section preview: %w", err)
	}
	if err := file.Section("log").MapTo(&cfg.Log); err != nil {
		return nil, fmt.Errorf("config section log: %w", err)
	}

	if sec := file.Section("preview"); sec.HasKey("file") {
		cfg.Preview.Files = nil
		for _, name := range sec.Key("file").ValueWithShadows() {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Preview.Files = append(cfg.Preview.Files, name)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges. An empty file list is valid.
func (c *Config) Validate() error {
	if c.Preview.Rows < 1 {
		return fmt.Errorf("preview rows must be at least 1, got %d", c.Preview.Rows)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Sources returns the configured files as an ordered file list.
func (c *Config) Sources() types.FileList {
	files := make(types.FileList, 0, len(c.Preview.Files))
	for _, name := range c.Preview.Files {
		files = append(files, types.Source{Dir: c.Preview.Directory, Name: name})
	}
	return files
}
