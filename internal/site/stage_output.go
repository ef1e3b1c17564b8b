package site

import (
	"context"

	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
)

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	if err := bs.Staging.Create(); err != nil {
		return newFatalStageError(StagePrepareOutput,
			ferrors.FileSystemError("prepare output").WithCause(err).WithContext("path", bs.Config.Build.OutputFolder).Build())
	}
	return nil
}

func stagePromote(_ context.Context, bs *BuildState) error {
	if err := bs.Staging.Promote(); err != nil {
		return newFatalStageError(StagePromote,
			ferrors.FileSystemError("replace output folder").WithCause(err).WithContext("path", bs.Config.Build.OutputFolder).Build())
	}
	return nil
}
