package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// Recorder defines observability hooks for pipeline and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|warning|failed
	AddFilesCopied(n int)
	AddFilesDeleted(n int)
	AddLinksRewritten(n int)
	AddWarnings(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) AddFilesCopied(int)                         {}
func (NoopRecorder) AddFilesDeleted(int)                        {}
func (NoopRecorder) AddLinksRewritten(int)                      {}
func (NoopRecorder) AddWarnings(int)                            {}
