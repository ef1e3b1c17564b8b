package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/simpledocs/internal/logfields"
	"git.home.luguber.info/inful/simpledocs/internal/metrics"
	"git.home.luguber.info/inful/simpledocs/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `short:"a" help:"Listen address" default:"127.0.0.1:8000"`
	Output  string `short:"o" help:"Override build.output-folder" type:"path"`
	NoBuild bool   `name:"no-build" help:"Serve the existing output folder without building first"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config, Overrides{Output: s.Output})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rec := metrics.NewPrometheusRecorder(nil)
	if !s.NoBuild {
		if _, err := RunBuild(ctx, cfg, os.Stdout, rec); err != nil {
			return err
		}
	}

	srv := server.NewServer(s.Addr, cfg.Build.OutputFolder, server.WithMetrics(rec.Registry()))
	slog.Info("Press Ctrl+C to stop", logfields.Addr(s.Addr))
	return srv.ListenAndServe(ctx)
}
