package pipeline

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/logfields"
)

// RunReport aggregates one pipeline run. Warnings are collected here and
// logged once at end of run rather than interleaved per file.
type RunReport struct {
	RunID          string
	StartedAt      time.Time
	Duration       time.Duration
	StageDurations map[string]time.Duration

	FilesCopied    int
	FilesDeleted   int
	FilesUnchanged int

	LinkReplacements int
	LinkFilesChanged int

	TitleFallbacks  int
	ManifestEntries int

	Warnings   []string
	FinalState State
	Err        error
}

func newRunReport(runID string) *RunReport {
	return &RunReport{
		RunID:          runID,
		StartedAt:      time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

// Warn records one warning for the end-of-run summary.
func (r *RunReport) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// WarningCount returns the aggregated warning count.
func (r *RunReport) WarningCount() int {
	return len(r.Warnings)
}

// Outcome classifies the run for metrics: failed, warning, or success.
func (r *RunReport) Outcome() string {
	switch {
	case r.Err != nil:
		return "failed"
	case len(r.Warnings) > 0:
		return "warning"
	default:
		return "success"
	}
}

// LogSummary emits the single end-of-run summary.
func (r *RunReport) LogSummary() {
	if r.Err != nil {
		slog.Error("Pipeline run failed",
			logfields.RunID(r.RunID),
			slog.String("state", string(r.FinalState)),
			logfields.Error(r.Err))
		return
	}
	slog.Info("Pipeline run complete",
		logfields.RunID(r.RunID),
		logfields.DurationMS(float64(r.Duration.Milliseconds())),
		slog.Int("copied", r.FilesCopied),
		slog.Int("deleted", r.FilesDeleted),
		slog.Int("unchanged", r.FilesUnchanged),
		slog.Int("link_replacements", r.LinkReplacements),
		slog.Int("manifest_entries", r.ManifestEntries),
		slog.Int("warnings", r.WarningCount()))
	for _, w := range r.Warnings {
		slog.Warn("Run warning", logfields.RunID(r.RunID), slog.String("warning", w))
	}
}
