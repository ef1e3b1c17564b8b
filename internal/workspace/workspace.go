package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/simpledocs/internal/logfields"
)

// Staging is a sibling directory of the output folder that a build writes
// into before it replaces the output folder in one step.
type Staging struct {
	outputDir string
	stageDir  string
}

// NewStaging prepares staging for outputDir. Nothing is created until Create.
func NewStaging(outputDir string) *Staging {
	return &Staging{outputDir: filepath.Clean(outputDir)}
}

// Create makes a fresh staging directory next to the output folder
// (e.g. site.staging-123456 for site).
func (s *Staging) Create() error {
	parent := filepath.Dir(s.outputDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create output parent directory: %w", err)
	}
	dir, err := os.MkdirTemp(parent, filepath.Base(s.outputDir)+".staging-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	// MkdirTemp uses 0700; published output should be world readable.
	if err := os.Chmod(dir, 0o755); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to set staging permissions: %w", err)
	}
	s.stageDir = dir
	slog.Debug("Created staging directory", logfields.Path(dir), logfields.Output(s.outputDir))
	return nil
}

// Path returns the staging directory, or "" before Create and after Promote/Abort.
func (s *Staging) Path() string {
	return s.stageDir
}

// Promote replaces the output folder with the staging directory:
//  1. move the existing output folder to <output>.prev
//  2. rename staging to the output folder
//  3. remove <output>.prev
//
// If step 2 fails the previous output is moved back.
func (s *Staging) Promote() error {
	if s.stageDir == "" {
		return errors.New("no staging directory initialized")
	}
	if _, err := os.Stat(s.stageDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := s.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("failed to remove stale backup: %w", err)
	}

	hadOutput := false
	if _, err := os.Lstat(s.outputDir); err == nil {
		if err := os.Rename(s.outputDir, prev); err != nil {
			return fmt.Errorf("failed to move previous output aside: %w", err)
		}
		hadOutput = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat output directory: %w", err)
	}

	if err := os.Rename(s.stageDir, s.outputDir); err != nil {
		if hadOutput {
			if rerr := os.Rename(prev, s.outputDir); rerr != nil {
				slog.Error("Failed to restore previous output", logfields.Path(prev), logfields.Error(rerr))
			}
		}
		return fmt.Errorf("failed to promote staging directory: %w", err)
	}
	s.stageDir = ""

	if hadOutput {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous output backup", logfields.Path(prev), logfields.Error(err))
		}
	}
	slog.Debug("Promoted staging directory", logfields.Output(s.outputDir))
	return nil
}

// Abort removes the staging directory and leaves the output folder untouched.
func (s *Staging) Abort() {
	if s.stageDir == "" {
		return
	}
	dir := s.stageDir
	s.stageDir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", logfields.Path(dir), logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory after abort", logfields.Path(dir))
}
