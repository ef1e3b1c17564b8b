package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/simpledocs/internal/config"
	"git.home.luguber.info/inful/simpledocs/internal/logfields"
	"git.home.luguber.info/inful/simpledocs/internal/metrics"
	"git.home.luguber.info/inful/simpledocs/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Override build.output-folder" type:"path"`
	Toc     string `short:"t" help:"Override build.toc-file" type:"path"`
	Report  string `help:"Write the JSON build report to this path" type:"path"`
	Metrics string `help:"Write Prometheus textfile metrics to this path" type:"path"`

	SkipLinkCheck bool `help:"Do not check internal links in the generated pages"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config, Overrides{Output: b.Output, Toc: b.Toc, Report: b.Report})
	if err != nil {
		return err
	}
	if b.Metrics != "" {
		cfg.Build.MetricsFile = b.Metrics
	}
	if b.SkipLinkCheck {
		cfg.Build.SkipLinks = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	_, err = RunBuild(ctx, cfg, os.Stdout, nil)
	return err
}

// RunBuild runs one build. When cfg names a metrics file the metrics are
// collected into rec (a fresh recorder if nil) and written after the build,
// also for failed builds.
func RunBuild(ctx context.Context, cfg *config.Config, stdout io.Writer, rec *metrics.PrometheusRecorder) (*site.BuildReport, error) {
	opts := []site.Option{site.WithStdout(stdout)}
	if cfg.Build.MetricsFile != "" && rec == nil {
		rec = metrics.NewPrometheusRecorder(nil)
	}
	if rec != nil {
		opts = append(opts, site.WithRecorder(rec))
	}

	report, err := site.NewBuilder(cfg, opts...).Build(ctx)

	if cfg.Build.MetricsFile != "" {
		if werr := rec.WriteTextfile(cfg.Build.MetricsFile); werr != nil {
			slog.Warn("Failed to write metrics", logfields.Path(cfg.Build.MetricsFile), logfields.Error(werr))
		} else {
			slog.Debug("Wrote metrics", logfields.Path(cfg.Build.MetricsFile))
		}
	}
	return report, err
}
