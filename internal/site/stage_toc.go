package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/simpledocs/internal/logfields"
	"git.home.luguber.info/inful/simpledocs/internal/toc"
)

func stageLoadToc(_ context.Context, bs *BuildState) error {
	entries, err := toc.Load(bs.Config.Build.TocFile)
	if err != nil {
		return newFatalStageError(StageLoadToc, err)
	}
	bs.Entries = entries
	slog.Debug("Loaded manifest", logfields.Path(bs.Config.Build.TocFile), logfields.Count(len(entries)))
	return nil
}
