package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	stageDuration  *prom.HistogramVec
	runDuration    prom.Histogram
	stageResults   *prom.CounterVec
	runOutcome     *prom.CounterVec
	filesCopied    prom.Counter
	filesDeleted   prom.Counter
	linksRewritten prom.Counter
	warnings       prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docmirror",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docmirror",
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docmirror",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docmirror",
			Name:      "run_outcomes_total",
			Help:      "Pipeline run outcomes by final status",
		}, []string{"outcome"})
		pr.filesCopied = prom.NewCounter(prom.CounterOpts{
			Namespace: "docmirror",
			Name:      "files_copied_total",
			Help:      "Files copied into the destination tree",
		})
		pr.filesDeleted = prom.NewCounter(prom.CounterOpts{
			Namespace: "docmirror",
			Name:      "files_deleted_total",
			Help:      "Orphaned destination files removed by mirror sync",
		})
		pr.linksRewritten = prom.NewCounter(prom.CounterOpts{
			Namespace: "docmirror",
			Name:      "links_rewritten_total",
			Help:      "Literal link replacements performed by repair rules",
		})
		pr.warnings = prom.NewCounter(prom.CounterOpts{
			Namespace: "docmirror",
			Name:      "warnings_total",
			Help:      "Warnings aggregated across pipeline runs",
		})
		reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcome,
			pr.filesCopied, pr.filesDeleted, pr.linksRewritten, pr.warnings)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddFilesCopied(n int) {
	if p == nil || p.filesCopied == nil {
		return
	}
	p.filesCopied.Add(float64(n))
}

func (p *PrometheusRecorder) AddFilesDeleted(n int) {
	if p == nil || p.filesDeleted == nil {
		return
	}
	p.filesDeleted.Add(float64(n))
}

func (p *PrometheusRecorder) AddLinksRewritten(n int) {
	if p == nil || p.linksRewritten == nil {
		return
	}
	p.linksRewritten.Add(float64(n))
}

func (p *PrometheusRecorder) AddWarnings(n int) {
	if p == nil || p.warnings == nil {
		return
	}
	p.warnings.Add(float64(n))
}
