package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/config"
	"git.home.luguber.info/inful/docmirror/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T) (registry.ResolvedSource, string) {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	return registry.ResolvedSource{
		SourceRepository: config.SourceRepository{
			Name:    "engine",
			Include: []config.Include{{Path: "docs", Dest: "engine"}},
		},
		RootDir: root,
	}, docs
}

func TestNewWatcherFailsOnMissingIncludePath(t *testing.T) {
	src, _ := testSource(t)
	src.Include = []config.Include{{Path: "gone", Dest: "gone"}}

	_, err := NewWatcher([]registry.ResolvedSource{src}, func(context.Context) {})
	assert.Error(t, err)
}

func TestWatcherTriggersRefreshAfterChange(t *testing.T) {
	src, docs := testSource(t)

	fired := make(chan struct{}, 1)
	w, err := NewWatcher([]registry.ResolvedSource{src}, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher loop a moment before generating the event.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(docs, "new.md"), []byte("# New\n"), 0o644))

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("refresh was not triggered by source change")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSchedulerFiresOnInterval(t *testing.T) {
	fired := make(chan struct{}, 1)
	s, err := NewScheduler(20*time.Millisecond, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	defer func() { require.NoError(t, s.Stop()) }()

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled refresh never fired")
	}
}
