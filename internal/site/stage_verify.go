package site

import (
	"context"
	"errors"
	"fmt"

	"git.home.luguber.info/inful/simpledocs/internal/linkverify"
)

// errBrokenLinks is wrapped into the verify_links warning.
var errBrokenLinks = errors.New("broken internal links")

func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	broken, err := linkverify.NewVerifier(bs.Staging.Path()).VerifySite(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageVerifyLinks, err)
		}
		// Verification problems never fail the build.
		return newWarnStageError(StageVerifyLinks, err)
	}
	bs.Report.BrokenLinks = broken
	for _, bl := range broken {
		bs.Report.AddIssue(IssueBrokenLink, StageVerifyLinks, SeverityWarning,
			fmt.Sprintf("link %q has no target", bl.URL), bl.Page, nil)
	}
	if len(broken) > 0 {
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%w: %d", errBrokenLinks, len(broken)))
	}
	return nil
}
