package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/simpledocs/internal/git"
	"git.home.luguber.info/inful/simpledocs/internal/linkverify"
	"git.home.luguber.info/inful/simpledocs/internal/metrics"
	"git.home.luguber.info/inful/simpledocs/internal/version"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are a stable contract and should only be appended.
type ReportIssueCode string

const (
	IssueMissingSource     ReportIssueCode = "MISSING_SOURCE"
	IssuePartialRender     ReportIssueCode = "PARTIAL_RENDER"
	IssueBrokenLink        ReportIssueCode = "BROKEN_LINK"
	IssueBrokenLinks       ReportIssueCode = "BROKEN_LINKS"
	IssueManifestInvalid   ReportIssueCode = "MANIFEST_INVALID"
	IssueManifestMissing   ReportIssueCode = "MANIFEST_MISSING"
	IssueRenderFailure     ReportIssueCode = "RENDER_FAILURE"
	IssueFileSystem        ReportIssueCode = "FILESYSTEM_FAILURE"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
	Path     string          `json:"path,omitempty"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// PageRecord describes one rendered page.
type PageRecord struct {
	Source      string `json:"source"`
	Output      string `json:"output"` // relative to the output folder
	Title       string `json:"title"`
	Fingerprint string `json:"fingerprint"`
}

// BuildReport captures the result of one build.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Title           string
	InputFolder     string
	OutputFolder    string
	TocFile         string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Pages           []PageRecord
	SkippedPages    []string // manifest hrefs whose source file was missing
	BrokenLinks     []linkverify.BrokenLink
	Revision        *git.Revision // nil when the input folder is not under git
	Outcome         BuildOutcome
	Issues          []ReportIssue
	Version         string
}

// NewBuildReport constructs a report with a fresh build ID.
func NewBuildReport(start time.Time) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		Start:           start,
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		Version:         version.Version,
	}
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings slices.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg, path string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Path: path})
	if err != nil {
		switch severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// RecordStageResult updates the stage counters and forwards to the recorder.
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	sc := r.StageCounts[stage]
	var label metrics.ResultLabel
	switch res {
	case StageResultSuccess:
		sc.Success++
		label = metrics.ResultSuccess
	case StageResultWarning:
		sc.Warning++
		label = metrics.ResultWarning
	case StageResultFatal:
		sc.Fatal++
		label = metrics.ResultFatal
	case StageResultCanceled:
		sc.Canceled++
		label = metrics.ResultCanceled
	}
	r.StageCounts[stage] = sc
	if recorder != nil && label != "" {
		recorder.IncStageResult(string(stage), label)
	}
}

// Finish sets the end time and derives the outcome.
func (r *BuildReport) Finish(end time.Time) {
	r.End = end
	r.DeriveOutcome()
}

// DeriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	rev := "-"
	if r.Revision != nil {
		rev = r.Revision.Short()
	}
	return fmt.Sprintf("build=%s pages=%d skipped=%d broken_links=%d duration=%s errors=%d warnings=%d revision=%s outcome=%s",
		r.BuildID, len(r.Pages), len(r.SkippedPages), len(r.BrokenLinks), dur.Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), rev, string(r.Outcome))
}

// Persist writes the JSON report to path and the text summary next to it
// (same name with a .txt extension). Both files are replaced atomically.
func (r *BuildReport) Persist(path string) error {
	if r.End.IsZero() {
		r.Finish(time.Now())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure directory for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(path, append(jb, '\n')); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := writeAtomic(SummaryPath(path), []byte(r.Summary()+"\n")); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

// SummaryPath returns the text summary path that belongs to a JSON report path.
func SummaryPath(reportPath string) string {
	return strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".txt"
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SanitizedCopy returns a copy with errors converted to strings for JSON output.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := make(map[string]int64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = v.Milliseconds()
	}

	s := &BuildReportSerializable{
		SchemaVersion:    r.SchemaVersion,
		BuildID:          r.BuildID,
		Title:            r.Title,
		InputFolder:      r.InputFolder,
		OutputFolder:     r.OutputFolder,
		TocFile:          r.TocFile,
		Start:            r.Start,
		End:              r.End,
		Errors:           make([]string, len(r.Errors)),
		Warnings:         make([]string, len(r.Warnings)),
		StageDurationsMS: durations,
		StageErrorKinds:  sek,
		StageCounts:      stageCounts,
		Pages:            r.Pages,
		SkippedPages:     r.SkippedPages,
		BrokenLinks:      r.BrokenLinks,
		Revision:         r.Revision,
		Outcome:          string(r.Outcome),
		Issues:           r.Issues,
		Version:          r.Version,
	}
	if s.Pages == nil {
		s.Pages = []PageRecord{}
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion    int                     `json:"schema_version"`
	BuildID          string                  `json:"build_id"`
	Title            string                  `json:"title"`
	InputFolder      string                  `json:"input_folder"`
	OutputFolder     string                  `json:"output_folder"`
	TocFile          string                  `json:"toc_file"`
	Start            time.Time               `json:"start"`
	End              time.Time               `json:"end"`
	Errors           []string                `json:"errors"`
	Warnings         []string                `json:"warnings"`
	StageDurationsMS map[string]int64        `json:"stage_durations_ms"`
	StageErrorKinds  map[string]string       `json:"stage_error_kinds"`
	StageCounts      map[string]StageCount   `json:"stage_counts"`
	Pages            []PageRecord            `json:"pages"`
	SkippedPages     []string                `json:"skipped_pages,omitempty"`
	BrokenLinks      []linkverify.BrokenLink `json:"broken_links,omitempty"`
	Revision         *git.Revision           `json:"revision,omitempty"`
	Outcome          string                  `json:"outcome"`
	Issues           []ReportIssue           `json:"issues"`
	Version          string                  `json:"version,omitempty"`
}
