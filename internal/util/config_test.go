package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"lox.toml",
			`debug_ast = true
history = "sqlite3:///tmp/lox.db"
max_call_depth = 500
`,
		},
		{
			"lox.yaml",
			`debug_ast: true
history: sqlite3:///tmp/lox.db
max_call_depth: 500
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfiguration()
			config.Version = "1.0"

			if err := config.LoadFile(writeFile(t, tt.name, tt.content)); err != nil {
				t.Fatalf("LoadFile: %v", err)
			}

			want := Configuration{
				Version:      "1.0",
				DebugAST:     true,
				LogLevel:     DefaultLogLevel,
				HistoryDSN:   "sqlite3:///tmp/lox.db",
				HistorySize:  DefaultHistorySize,
				MaxCallDepth: 500,
			}
			if diff := cmp.Diff(want, config); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown.toml", "colour = \"blue\"\n"},
		{"unknown.yml", "colour: blue\n"},
		{"negative.toml", "history_size = -1\n"},
		{"broken.toml", "debug_ast = \n"},
		{"settings.ini", "debug_ast=true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfiguration()
			if err := config.LoadFile(writeFile(t, tt.name, tt.content)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}
