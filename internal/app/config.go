package app

import (
	"errors"
	"fmt"
	"time"
)

// Command selects what Run does.
type Command string

const (
	CommandInspect Command = "inspect"
	CommandSources Command = "sources"
	CommandServe   Command = "serve"
)

// Output formats for the inspect and sources commands.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all the necessary configuration for an App instance to run.
// Zero values mean "not set on the command line"; the configuration file or
// the built-in defaults fill them in.
type Config struct {
	Command     Command
	ConfigPaths []string // hcl files or directories

	BlueprintURL string
	LogFormat    string
	LogLevel     string
	Port         int
	HighlightTTL *time.Duration

	NodeID string
	Format string
}

// NewConfig validates cfg and returns a copy with defaults applied.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandInspect, CommandServe:
	case CommandSources:
		if cfg.NodeID == "" {
			return nil, errors.New("the sources command requires a node id")
		}
	case "":
		return nil, errors.New("a command is required")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	switch cfg.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'text', 'json' or 'yaml'", cfg.Format)
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	if cfg.HighlightTTL != nil && *cfg.HighlightTTL < 0 {
		return nil, errors.New("highlight-ttl must not be negative")
	}

	return &cfg, nil
}
