package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetpeek.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Preview.Rows != 10 {
		t.Errorf("Rows = %d; want 10", cfg.Preview.Rows)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q; want error", cfg.Log.Level)
	}

	sources := cfg.Sources()
	if len(sources) != len(DefaultFiles) {
		t.Fatalf("got %d sources; want %d", len(sources), len(DefaultFiles))
	}
	for i, src := range sources {
		if src.Dir != DefaultDirectory || src.Name != DefaultFiles[i] {
			t.Errorf("source %d = %+v", i, src)
		}
	}

	cfg.Preview.Files[0] = "changed.xlsx"
	if DefaultFiles[0] == "changed.xlsx" {
		t.Error("Default shares its file slice with DefaultFiles")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[preview]
directory = /srv/planilhas
rows      = 5
file      = Tabela Preços Castelli - Tab01 - +70m2.xlsx
file      = b.xls
file      = a.csv

[log]
level  = debug
format = json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Preview.Directory != "/srv/planilhas" {
		t.Errorf("Directory = %q", cfg.Preview.Directory)
	}
	if cfg.Preview.Rows != 5 {
		t.Errorf("Rows = %d; want 5", cfg.Preview.Rows)
	}

	want := []string{"Tabela Preços Castelli - Tab01 - +70m2.xlsx", "b.xls", "a.csv"}
	if strings.Join(cfg.Preview.Files, "|") != strings.Join(want, "|") {
		t.Errorf("Files = %q; want %q", cfg.Preview.Files, want)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[preview]\nrows = 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Preview.Rows != 3 {
		t.Errorf("Rows = %d; want 3", cfg.Preview.Rows)
	}
	if cfg.Preview.Directory != DefaultDirectory {
		t.Errorf("Directory = %q; want default", cfg.Preview.Directory)
	}
	if len(cfg.Preview.Files) != len(DefaultFiles) {
		t.Errorf("Files = %q; want defaults", cfg.Preview.Files)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Zero rows", "[preview]\nrows = 0\n"},
		{"Unknown log format", "[log]\nformat = xml\n"},
		{"Unknown log level", "[log]\nlevel = bogus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
			t.Error("expected error")
		}
	})
}
