package pipeline

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/metrics"
)

// Stage names, also used as metric labels.
const (
	StageSync        = "sync"
	StageRepairLinks = "repair_links"
	StageGenerateTOC = "generate_toc"
)

// Stage is a discrete unit of work in a pipeline run.
type Stage func(ctx context.Context, report *RunReport) error

// namedStage pairs a stage with its name and the lifecycle state it runs in.
type namedStage struct {
	name  string
	state State
	fn    Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first error. Only the sync stage can return an error (repair and TOC
// degrade to warnings), so an error here always means a fatal run.
func (p *Pipeline) runStages(ctx context.Context, report *RunReport, stages []namedStage) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %s: %w", st.name, err)
		}
		if err := p.transition(st.state); err != nil {
			return err
		}

		t0 := time.Now()
		err := st.fn(ctx, report)
		dur := time.Since(t0)
		report.StageDurations[st.name] = dur
		p.recorder.ObserveStageDuration(st.name, dur)

		if err != nil {
			p.recorder.IncStageResult(st.name, metrics.ResultFatal)
			return err
		}
		p.recorder.IncStageResult(st.name, metrics.ResultSuccess)
	}
	return nil
}
