// Package registry resolves configured source repositories to readable roots
// on local disk. Sources are sibling checkouts refreshed by an external
// process; the registry never fetches anything.
package registry

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docmirror/internal/config"
	"git.home.luguber.info/inful/docmirror/internal/errors"
	"git.home.luguber.info/inful/docmirror/internal/gitinfo"
	"git.home.luguber.info/inful/docmirror/internal/logfields"
)

// ResolvedSource is a SourceRepository with its root resolved to an absolute,
// verified directory.
type ResolvedSource struct {
	config.SourceRepository
	RootDir string // Absolute path to the verified source root
	Head    string // HEAD commit hash when the root is a git work tree, else empty
}

// Resolve verifies every configured source. A missing or unreadable root is
// fatal: a stale destination must never be mistaken for "nothing changed".
func Resolve(cfg *config.Config) ([]ResolvedSource, error) {
	resolved := make([]ResolvedSource, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		root := src.Root
		if override, ok := config.SourceRootOverride(src.Name); ok {
			slog.Debug("Source root overridden from environment",
				logfields.Source(src.Name),
				slog.String("env", config.SourceEnvVar(src.Name)),
				logfields.Path(override))
			root = override
		}
		if !filepath.IsAbs(root) {
			root = filepath.Join(cfg.BaseDir, root)
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.MissingSource(src.Name, root, err)
		}
		if !info.IsDir() {
			return nil, errors.MissingSource(src.Name, root, nil).WithContext("reason", "not a directory")
		}
		if _, err := os.ReadDir(root); err != nil {
			return nil, errors.MissingSource(src.Name, root, err).WithContext("reason", "unreadable")
		}

		rs := ResolvedSource{SourceRepository: src, RootDir: root}
		if head, err := gitinfo.Head(root); err == nil {
			rs.Head = head
		} else {
			slog.Debug("Source root is not a git work tree", logfields.Source(src.Name), logfields.Error(err))
		}

		slog.Info("Source resolved",
			logfields.Source(src.Name),
			logfields.Path(root),
			slog.String("head", rs.Head))
		resolved = append(resolved, rs)
	}
	return resolved, nil
}
