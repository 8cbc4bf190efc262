// Package syncer implements the mirror sync stage: each included
// subdirectory of a source repository is mirrored into the destination tree
// with delete-on-missing semantics. Planning and applying are separate steps
// so the comparison is pure and testable; only Apply touches the destination.
package syncer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docmirror/internal/errors"
	"git.home.luguber.info/inful/docmirror/internal/logfields"
	"git.home.luguber.info/inful/docmirror/internal/registry"
)

// Result aggregates what a sync pass changed.
type Result struct {
	Copied    int
	Deleted   int
	Unchanged int
}

// Sync mirrors every resolved source into destRoot. Any I/O failure is
// fatal: a half-copied tree would corrupt the idempotence guarantee, so there
// is no partial-copy tolerance.
func Sync(sources []registry.ResolvedSource, destRoot string) (*Result, error) {
	total := &Result{}
	for _, src := range sources {
		plan, err := BuildPlan(src, destRoot)
		if err != nil {
			return nil, err
		}
		res, err := Apply(plan)
		if err != nil {
			return nil, err
		}
		total.Copied += res.Copied
		total.Deleted += res.Deleted
		total.Unchanged += res.Unchanged

		slog.Info("Source mirrored",
			logfields.Source(src.Name),
			slog.Int("copied", res.Copied),
			slog.Int("deleted", res.Deleted),
			slog.Int("unchanged", res.Unchanged))
	}
	return total, nil
}

// Apply materializes a plan: copies first, then deletes, then prunes
// directories the deletes emptied.
func Apply(plan *Plan) (*Result, error) {
	res := &Result{Unchanged: plan.Unchanged}

	for _, cp := range plan.Copies {
		if err := copyFile(cp.SourcePath, cp.DestPath); err != nil {
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
				fmt.Sprintf("source %q: copying %s", plan.Source, cp.Relative))
		}
		res.Copied++
		slog.Debug("Copied", logfields.Source(plan.Source), logfields.File(cp.Relative))
	}

	for _, del := range plan.Deletes {
		if err := os.Remove(del.Path); err != nil {
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
				fmt.Sprintf("source %q: deleting %s", plan.Source, del.Path))
		}
		res.Deleted++
		slog.Debug("Deleted orphan", logfields.Source(plan.Source), logfields.Path(del.Path))
		pruneEmptyDirs(filepath.Dir(del.Path), del.Boundary)
	}

	return res, nil
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// pruneEmptyDirs removes now-empty parent directories after orphan deletion.
// Stops at the first non-empty ancestor, and never climbs past stop: the
// include's destination directory and everything above it stay in place.
func pruneEmptyDirs(dir, stop string) {
	for dir != stop {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
