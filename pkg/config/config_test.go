package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxLadderLength != 500 || cfg.LogLevel != "info" || cfg.Render.Format != "svg" {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Config
	}{
		{
			name:  "Empty",
			input: "",
			want:  Default(),
		},
		{
			name:  "Partial",
			input: "max_ladder_length = 40\n",
			want:  Config{MaxLadderLength: 40, LogLevel: "info", Render: Render{Format: "svg"}},
		},
		{
			name: "Full",
			input: `max_ladder_length = 12
log_level = "DEBUG"

[render]
format = "dot"
labels = true
`,
			want: Config{MaxLadderLength: 12, LogLevel: "DEBUG", Render: Render{Format: "dot", Labels: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"Syntax", "max_ladder_length = ", "parse config"},
		{"WrongType", `max_ladder_length = "long"`, "parse config"},
		{"UnknownKey", "max_length = 3\n", "max_length"},
		{"UnknownNestedKey", "[render]\ncolor = \"red\"\n", "render.color"},
		{"ZeroLength", "max_ladder_length = 0\n", "max_ladder_length"},
		{"BadLevel", `log_level = "loud"`, "log level"},
		{"BadFormat", "[render]\nformat = \"gif\"\n", "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
				t.Fatalf("Parse() error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Parse() error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Config{MaxLadderLength: -1, LogLevel: "x", Render: Render{Format: "y"}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	if n := strings.Count(err.Error(), "\n  - "); n != 3 {
		t.Errorf("Validate() reported %d problems, want 3: %v", n, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)
	if err := os.WriteFile(path, []byte("max_ladder_length = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxLadderLength != 8 {
		t.Errorf("MaxLadderLength = %d, want 8", cfg.MaxLadderLength)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("LoadOrDefault() = %+v, want defaults", cfg)
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("log_level = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("LoadOrDefault(bad) error = nil")
	}
}
