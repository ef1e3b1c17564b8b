package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/simpledocs/internal/config"
	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the documentation site"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration, manifest and docs folder"`
	Serve ServeCmd `cmd:"" help:"Build the site and serve it over HTTP for preview"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// Overrides are command-line values that replace configuration keys.
type Overrides struct {
	Output string
	Toc    string
	Report string
}

// LoadConfig loads the configuration file and applies non-empty overrides.
// The result is validated again after the overrides are applied.
func LoadConfig(path string, o Overrides) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	changed := false
	if o.Output != "" {
		cfg.Build.OutputFolder = o.Output
		changed = true
	}
	if o.Toc != "" {
		cfg.Build.TocFile = o.Toc
		changed = true
	}
	if o.Report != "" {
		cfg.Build.ReportFile = o.Report
		changed = true
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Fatal().WithContext("path", path).Build()
		}
	}
	return cfg, nil
}
