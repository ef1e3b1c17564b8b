package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/simpledocs/internal/config"
	"git.home.luguber.info/inful/simpledocs/internal/git"
	"git.home.luguber.info/inful/simpledocs/internal/logfields"
	"git.home.luguber.info/inful/simpledocs/internal/markdown"
	"git.home.luguber.info/inful/simpledocs/internal/metrics"
	"git.home.luguber.info/inful/simpledocs/internal/render"
	"git.home.luguber.info/inful/simpledocs/internal/toc"
	"git.home.luguber.info/inful/simpledocs/internal/workspace"
)

// BuildState carries data between stages of one build.
type BuildState struct {
	Config   *config.Config
	Report   *BuildReport
	Staging  *workspace.Staging
	Entries  []toc.Entry
	Renderer *render.Renderer

	converter markdown.Converter
	recorder  metrics.Recorder
	year      int
}

// Builder runs site builds for one configuration.
type Builder struct {
	cfg       *config.Config
	converter markdown.Converter
	recorder  metrics.Recorder
	stdout    io.Writer
	now       func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder (default metrics.NoopRecorder).
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithConverter replaces the goldmark converter.
func WithConverter(c markdown.Converter) Option {
	return func(b *Builder) { b.converter = c }
}

// WithStdout sets where the completion message is printed (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(b *Builder) { b.stdout = w }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		stdout:   os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.converter == nil {
		b.converter = markdown.NewConverter(markdown.Options{Safe: cfg.Build.SafeHTML})
	}
	return b
}

// Build runs the pipeline. The returned report is never nil; it is also
// persisted when a report file is configured. The output folder is only
// replaced when every stage completed without a fatal error.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	start := b.now()
	report := NewBuildReport(start)
	report.Title = b.cfg.Build.Title
	report.InputFolder = b.cfg.Build.InputFolder
	report.OutputFolder = b.cfg.Build.OutputFolder
	report.TocFile = b.cfg.Build.TocFile
	report.Revision = sourceRevision(b.cfg.Build.InputFolder)

	slog.Info("Starting build",
		logfields.BuildID(report.BuildID),
		slog.String("input", b.cfg.Build.InputFolder),
		logfields.Output(b.cfg.Build.OutputFolder))

	bs := &BuildState{
		Config:    b.cfg,
		Report:    report,
		Staging:   workspace.NewStaging(b.cfg.Build.OutputFolder),
		converter: b.converter,
		recorder:  b.recorder,
		year:      start.Year(),
	}

	err := runStages(ctx, bs, b.pipeline())
	if err != nil {
		bs.Staging.Abort()
	}

	report.Finish(b.now())
	b.recordOutcome(report)
	b.persist(report)

	if err != nil {
		slog.Error("Build failed",
			logfields.BuildID(report.BuildID),
			logfields.Error(err),
			slog.String("outcome", string(report.Outcome)))
		return report, err
	}

	slog.Info("Build complete",
		logfields.BuildID(report.BuildID),
		logfields.Count(len(report.Pages)),
		slog.Int("skipped", len(report.SkippedPages)),
		slog.String("outcome", string(report.Outcome)))
	index := filepath.Join(b.cfg.Build.OutputFolder, render.IndexFile)
	fmt.Fprintf(b.stdout, "Build complete! Open %s to view.\n", index)
	return report, nil
}

func (b *Builder) pipeline() []StageDef {
	return NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageLoadToc, stageLoadToc).
		Add(StageRenderIndex, stageRenderIndex).
		Add(StageRenderPages, stageRenderPages).
		Add(StageWriteAssets, stageWriteAssets).
		AddIf(!b.cfg.Build.SkipLinks, StageVerifyLinks, stageVerifyLinks).
		Add(StagePromote, stagePromote).
		Build()
}

func (b *Builder) recordOutcome(report *BuildReport) {
	b.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	b.recorder.IncPagesRendered(len(report.Pages))
	b.recorder.IncPagesSkipped(len(report.SkippedPages))
	b.recorder.SetBrokenLinks(len(report.BrokenLinks))
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
}

func (b *Builder) persist(report *BuildReport) {
	path := b.cfg.Build.ReportFile
	if path == "" {
		return
	}
	if err := report.Persist(path); err != nil {
		slog.Warn("Failed to persist build report", logfields.Path(path), logfields.Error(err))
		return
	}
	slog.Debug("Wrote build report", logfields.Path(path))
}

// sourceRevision returns the git revision of the input folder, or nil.
func sourceRevision(inputFolder string) *git.Revision {
	rev, err := git.ReadRevision(inputFolder)
	if err != nil {
		if !errors.Is(err, git.ErrNotRepository) {
			slog.Debug("Could not read source revision", logfields.Path(inputFolder), logfields.Error(err))
		}
		return nil
	}
	return &rev
}
