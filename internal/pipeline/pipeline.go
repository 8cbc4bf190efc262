// Package pipeline orchestrates the three stages over the shared destination
// tree: mirror sync, link repair, TOC generation. Stages run strictly in
// order; each consumes the filesystem state the previous one left behind.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/config"
	"git.home.luguber.info/inful/docmirror/internal/linkfix"
	"git.home.luguber.info/inful/docmirror/internal/logfields"
	"git.home.luguber.info/inful/docmirror/internal/metrics"
	"git.home.luguber.info/inful/docmirror/internal/registry"
	"git.home.luguber.info/inful/docmirror/internal/syncer"
	"git.home.luguber.info/inful/docmirror/internal/toc"
	"github.com/google/uuid"
)

// Pipeline wires the stages over one configuration.
type Pipeline struct {
	cfg      *config.Config
	recorder metrics.Recorder
	state    State
}

// New creates a pipeline. A nil recorder disables metrics.
func New(cfg *config.Config, recorder metrics.Recorder) *Pipeline {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Pipeline{cfg: cfg, recorder: recorder, state: StateIdle}
}

// Refresh runs all three stages in order. A fatal sync condition aborts the
// run before repair and TOC generation; those two stages only emit warnings.
func (p *Pipeline) Refresh(ctx context.Context) (*RunReport, error) {
	p.state = StateIdle
	report := newRunReport(uuid.NewString())
	slog.Info("Pipeline run starting", logfields.RunID(report.RunID))

	err := p.runStages(ctx, report, []namedStage{
		{name: StageSync, state: StateSyncing, fn: p.syncStage},
		{name: StageRepairLinks, state: StateRepairing, fn: p.repairStage},
		{name: StageGenerateTOC, state: StateGeneratingTOC, fn: p.tocStage},
	})
	if err != nil {
		report.Err = err
		_ = p.transition(StateFailed)
	} else {
		_ = p.transition(StateDone)
	}
	report.FinalState = p.state
	report.Duration = time.Since(report.StartedAt)

	p.recorder.ObserveRunDuration(report.Duration)
	p.recorder.IncRunOutcome(report.Outcome())
	p.recorder.AddWarnings(report.WarningCount())

	report.LogSummary()
	return report, err
}

// syncStage resolves sources and mirrors them. The only stage that can fail
// the run: a missing source must never be misread as "nothing changed".
func (p *Pipeline) syncStage(_ context.Context, report *RunReport) error {
	sources, err := registry.Resolve(p.cfg)
	if err != nil {
		return err
	}
	result, err := syncer.Sync(sources, p.cfg.DestinationDir())
	if err != nil {
		return err
	}
	report.FilesCopied = result.Copied
	report.FilesDeleted = result.Deleted
	report.FilesUnchanged = result.Unchanged
	p.recorder.AddFilesCopied(result.Copied)
	p.recorder.AddFilesDeleted(result.Deleted)
	return nil
}

// repairStage applies the rule table. Best-effort: engine errors degrade to
// warnings so link repair never blocks publication.
func (p *Pipeline) repairStage(_ context.Context, report *RunReport) error {
	engine := linkfix.NewEngine(p.cfg.DestinationDir(), linkfix.FromConfig(p.cfg.LinkRules))
	rep, err := engine.Apply()
	if err != nil {
		report.Warn(fmt.Sprintf("link repair incomplete: %v", err))
		return nil
	}
	report.LinkReplacements = rep.Replacements
	report.LinkFilesChanged = rep.FilesChanged
	p.recorder.AddLinksRewritten(rep.Replacements)

	for _, stale := range rep.StaleRules() {
		report.Warn(fmt.Sprintf("stale link rule (scope %q): %s", stale.Rule.Scope, stale.Rule.Describe()))
	}
	return nil
}

// tocStage rebuilds the navigation manifest wholesale.
func (p *Pipeline) tocStage(_ context.Context, report *RunReport) error {
	gen := toc.NewGenerator(p.cfg.DestinationDir(), p.cfg.TOC)
	root, err := gen.Build()
	if err != nil {
		report.Warn(fmt.Sprintf("toc generation incomplete: %v", err))
		return nil
	}
	if err := toc.WriteManifest(root, p.cfg.ManifestPath()); err != nil {
		report.Warn(fmt.Sprintf("manifest write failed: %v", err))
		return nil
	}
	report.ManifestEntries = root.EntryCount()
	report.TitleFallbacks = gen.TitleFallbacks
	if gen.TitleFallbacks > 0 {
		// Per-file details were already logged by the generator.
		report.Warn(fmt.Sprintf("%d title(s) derived from filenames for files without a top-level heading", gen.TitleFallbacks))
	}
	return nil
}

// RunSync runs only the mirror sync stage.
func (p *Pipeline) RunSync(ctx context.Context) (*RunReport, error) {
	return p.runSingle(ctx, namedStage{name: StageSync, state: StateSyncing, fn: p.syncStage})
}

// RunRepairLinks runs only the link repair stage against the current tree.
func (p *Pipeline) RunRepairLinks(ctx context.Context) (*RunReport, error) {
	p.state = StateSyncing // single-stage invocation skips the sync transition
	return p.runSingle(ctx, namedStage{name: StageRepairLinks, state: StateRepairing, fn: p.repairStage})
}

// RunGenerateTOC runs only the TOC generation stage against the current tree.
func (p *Pipeline) RunGenerateTOC(ctx context.Context) (*RunReport, error) {
	p.state = StateRepairing // single-stage invocation skips earlier transitions
	return p.runSingle(ctx, namedStage{name: StageGenerateTOC, state: StateGeneratingTOC, fn: p.tocStage})
}

func (p *Pipeline) runSingle(ctx context.Context, st namedStage) (*RunReport, error) {
	report := newRunReport(uuid.NewString())
	err := p.runStages(ctx, report, []namedStage{st})
	if err != nil {
		report.Err = err
		if st.state == StateSyncing {
			_ = p.transition(StateFailed)
		}
	}
	report.FinalState = p.state
	report.Duration = time.Since(report.StartedAt)
	report.LogSummary()
	return report, err
}
