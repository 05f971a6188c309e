package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHistorySize = 100
	DefaultLogLevel    = "error"
)

type Configuration struct {
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	DebugAST bool   `toml:"debug_ast" yaml:"debug_ast"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`

	// HistoryDSN selects the REPL history store. Empty disables it.
	HistoryDSN  string `toml:"history" yaml:"history"`
	HistorySize int    `toml:"history_size" yaml:"history_size"`

	// MaxCallDepth of zero keeps the evaluator's default.
	MaxCallDepth int `toml:"max_call_depth" yaml:"max_call_depth"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:    DefaultLogLevel,
		HistorySize: DefaultHistorySize,
	}
}

// LoadFile overlays the settings found in a .toml, .yaml or .yml file.
// Keys missing from the file keep their current values.
func (c *Configuration) LoadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("config: unknown key %q in %s", undecoded[0].String(), path)
		}

	case ".yaml", ".yml":
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}

	default:
		return fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}

	if c.HistorySize < 0 || c.MaxCallDepth < 0 {
		return fmt.Errorf("config: history_size and max_call_depth must not be negative")
	}
	return nil
}
