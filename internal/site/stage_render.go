package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
	"git.home.luguber.info/inful/simpledocs/internal/logfields"
	"git.home.luguber.info/inful/simpledocs/internal/nav"
	"git.home.luguber.info/inful/simpledocs/internal/render"
	"git.home.luguber.info/inful/simpledocs/internal/toc"
)

// renderer returns the build's renderer, creating it against the staging
// directory on first use.
func (bs *BuildState) renderer() (*render.Renderer, error) {
	if bs.Renderer != nil {
		return bs.Renderer, nil
	}
	r, err := render.New(render.Settings{
		InputFolder:  bs.Config.Build.InputFolder,
		OutputFolder: bs.Staging.Path(),
		SiteTitle:    bs.Config.Build.Title,
		Year:         bs.year,
	}, bs.converter)
	if err != nil {
		return nil, err
	}
	bs.Renderer = r
	return r, nil
}

func stageRenderIndex(_ context.Context, bs *BuildState) error {
	r, err := bs.renderer()
	if err != nil {
		return newFatalStageError(StageRenderIndex, err)
	}
	navHTML := nav.NewBuilder(bs.Config.Build.InputFolder).HTML(bs.Entries)
	if _, err := r.RenderIndex(navHTML); err != nil {
		return newFatalStageError(StageRenderIndex, err)
	}
	return nil
}

func stageRenderPages(ctx context.Context, bs *BuildState) error {
	r, err := bs.renderer()
	if err != nil {
		return newFatalStageError(StageRenderPages, err)
	}

	for _, href := range toc.Flatten(bs.Entries) {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRenderPages, err)
		}

		page, err := r.RenderPage(href)
		if err != nil {
			if ferrors.HasCategory(err, ferrors.CategoryMissingFile) {
				slog.Warn("Skipping missing source file", logfields.Path(href))
				bs.Report.SkippedPages = append(bs.Report.SkippedPages, href)
				bs.Report.AddIssue(IssueMissingSource, StageRenderPages, SeverityWarning, "source file not found", href, nil)
				continue
			}
			return newFatalStageError(StageRenderPages, err)
		}

		rel, relErr := filepath.Rel(bs.Staging.Path(), page.OutputPath)
		if relErr != nil {
			rel = page.OutputPath
		}
		bs.Report.Pages = append(bs.Report.Pages, PageRecord{
			Source:      href,
			Output:      filepath.ToSlash(rel),
			Title:       page.Title,
			Fingerprint: page.Fingerprint,
		})
	}

	if n := len(bs.Report.SkippedPages); n > 0 {
		return newWarnStageError(StageRenderPages,
			ferrors.NewError(ferrors.CategoryMissingFile, fmt.Sprintf("%d referenced file(s) not found", n)).
				Warning().
				WithContext("path", bs.Report.SkippedPages[0]).
				Build())
	}
	return nil
}

func stageWriteAssets(_ context.Context, bs *BuildState) error {
	r, err := bs.renderer()
	if err != nil {
		return newFatalStageError(StageWriteAssets, err)
	}
	if _, err := r.WriteStylesheet(); err != nil {
		return newFatalStageError(StageWriteAssets, err)
	}
	return nil
}
