package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/config"
	"git.home.luguber.info/inful/docmirror/internal/linkfix"
	"git.home.luguber.info/inful/docmirror/internal/logfields"
	"git.home.luguber.info/inful/docmirror/internal/metrics"
	"git.home.luguber.info/inful/docmirror/internal/pipeline"
	"git.home.luguber.info/inful/docmirror/internal/registry"
	"git.home.luguber.info/inful/docmirror/internal/watch"
	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docmirror.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Sync struct{} `cmd:"" help:"Mirror source repositories into the destination tree"`

	RepairLinks struct {
		Verify bool `help:"Report relative links whose targets are still missing after repair"`
	} `cmd:"" help:"Apply the link rewrite rule table to the destination tree"`

	GenerateToc struct{} `cmd:"" help:"Regenerate the navigation manifest from the destination tree"`

	Refresh struct{} `cmd:"" help:"Run sync, link repair and TOC generation in order"`

	Watch struct {
		Every         time.Duration `help:"Also refresh on a fixed interval (e.g. 10m)"`
		MetricsListen string        `help:"Serve Prometheus metrics on this address (e.g. :9464)"`
	} `cmd:"" help:"Refresh continuously as source content changes"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	switch ctx.Command() {
	case "sync":
		p := pipeline.New(cfg, nil)
		if _, err := p.RunSync(context.Background()); err != nil {
			os.Exit(1)
		}
	case "repair-links":
		p := pipeline.New(cfg, nil)
		if _, err := p.RunRepairLinks(context.Background()); err != nil {
			os.Exit(1)
		}
		if CLI.RepairLinks.Verify {
			reportBrokenLinks(cfg)
		}
	case "generate-toc":
		p := pipeline.New(cfg, nil)
		if _, err := p.RunGenerateTOC(context.Background()); err != nil {
			os.Exit(1)
		}
	case "refresh":
		p := pipeline.New(cfg, nil)
		if _, err := p.Refresh(context.Background()); err != nil {
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// reportBrokenLinks lists relative links no rule repaired. Diagnostic only;
// it never affects the exit code.
func reportBrokenLinks(cfg *config.Config) {
	broken, err := linkfix.Verify(cfg.DestinationDir())
	if err != nil {
		slog.Warn("Link verification incomplete", logfields.Error(err))
		return
	}
	for _, b := range broken {
		slog.Warn("Unrepaired relative link",
			logfields.File(b.File),
			slog.String("destination", b.Destination))
	}
	slog.Info("Link verification complete", logfields.Count(len(broken)))
}

// runWatch performs an initial refresh, then re-runs the full pipeline after
// source changes (and optionally on a fixed interval). Every trigger starts
// from stage one; interrupted runs are healed by the next full pass.
func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder
	if CLI.Watch.MetricsListen != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		go func() {
			slog.Info("Serving metrics", slog.String("addr", CLI.Watch.MetricsListen))
			if err := http.ListenAndServe(CLI.Watch.MetricsListen, metrics.HTTPHandler(reg)); err != nil {
				slog.Warn("Metrics server stopped", logfields.Error(err))
			}
		}()
	}

	p := pipeline.New(cfg, recorder)
	refresh := func(ctx context.Context) {
		// Fatal sync conditions do not stop watching: the operator can fix
		// the sibling checkout and the next trigger retries from stage one.
		if _, err := p.Refresh(ctx); err != nil {
			slog.Error("Refresh failed; will retry on next change", logfields.Error(err))
		}
	}

	refresh(ctx)

	sources, err := registry.Resolve(cfg)
	if err != nil {
		return err
	}
	watcher, err := watch.NewWatcher(sources, refresh)
	if err != nil {
		return err
	}

	if CLI.Watch.Every > 0 {
		scheduler, err := watch.NewScheduler(CLI.Watch.Every, refresh)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { _ = scheduler.Stop() }()
	}

	slog.Info("Watching for source changes (Ctrl-C to stop)")
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
