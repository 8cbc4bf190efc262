package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("sync", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("sync", ResultSuccess)
	pr.IncRunOutcome("success")
	pr.AddFilesCopied(3)
	pr.AddFilesDeleted(1)
	pr.AddLinksRewritten(7)
	pr.AddWarnings(2)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNoopRecorderSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("sync", time.Second)
	r.ObserveRunDuration(time.Second)
	r.IncStageResult("sync", ResultWarning)
	r.IncRunOutcome("warning")
	r.AddFilesCopied(1)
	r.AddFilesDeleted(1)
	r.AddLinksRewritten(1)
	r.AddWarnings(1)
}
