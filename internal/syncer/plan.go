package syncer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docmirror/internal/errors"
	"git.home.luguber.info/inful/docmirror/internal/registry"
)

// CopyAction is one pending file copy from source into the destination tree.
type CopyAction struct {
	SourcePath string // Absolute path in the source repository
	DestPath   string // Absolute path in the destination tree
	Relative   string // Path relative to the include root, for logging
}

// DeleteAction is one pending orphan removal. Boundary is the include's
// destination directory; directory pruning after the delete never climbs
// past it, so the destination root and anything outside the synced scope
// survive even when an include empties out completely.
type DeleteAction struct {
	Path     string // Absolute destination path with no source counterpart
	Boundary string // Include destination directory the delete belongs to
}

// Plan is the in-memory result of comparing one source against the
// destination. Building it mutates nothing; Apply materializes it.
type Plan struct {
	Source    string
	Copies    []CopyAction
	Deletes   []DeleteAction
	Unchanged int // Files already identical on both sides
}

// Empty reports whether applying the plan would change the filesystem.
func (p *Plan) Empty() bool {
	return len(p.Copies) == 0 && len(p.Deletes) == 0
}

// BuildPlan compares every include of a resolved source against the
// destination tree and returns the actions needed to mirror it. Files under
// excluded subpaths are never planned for copy; destination files with no
// source counterpart under a synced include are planned for deletion.
// Destination content outside the includes is not inspected at all.
func BuildPlan(src registry.ResolvedSource, destRoot string) (*Plan, error) {
	plan := &Plan{Source: src.Name}

	for _, inc := range src.Include {
		srcDir := filepath.Join(src.RootDir, inc.Path)
		destDir := filepath.Join(destRoot, filepath.FromSlash(inc.Dest))

		info, err := os.Stat(srcDir)
		if err != nil || !info.IsDir() {
			return nil, errors.New(errors.CategorySync, errors.SeverityFatal,
				fmt.Sprintf("source %q: included path %s not found under %s", src.Name, inc.Path, src.RootDir))
		}

		sourceFiles := make(map[string]struct{})
		err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(srcDir, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel != "." && excluded(rel, src.Exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if excluded(rel, src.Exclude) {
				return nil
			}
			sourceFiles[rel] = struct{}{}

			destPath := filepath.Join(destDir, filepath.FromSlash(rel))
			same, cmpErr := sameContent(path, destPath)
			if cmpErr != nil {
				return cmpErr
			}
			if same {
				plan.Unchanged++
				return nil
			}
			plan.Copies = append(plan.Copies, CopyAction{SourcePath: path, DestPath: destPath, Relative: rel})
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CategorySync, errors.SeverityFatal,
				fmt.Sprintf("source %q: walking %s", src.Name, srcDir))
		}

		// Delete-on-missing over the already-mirrored destination side.
		if err := planDeletes(plan, destDir, sourceFiles); err != nil {
			return nil, err
		}
	}

	// Deterministic ordering regardless of walk interleaving.
	sort.Slice(plan.Copies, func(i, j int) bool { return plan.Copies[i].DestPath < plan.Copies[j].DestPath })
	sort.Slice(plan.Deletes, func(i, j int) bool { return plan.Deletes[i].Path < plan.Deletes[j].Path })
	return plan, nil
}

func planDeletes(plan *Plan, destDir string, sourceFiles map[string]struct{}) error {
	if _, err := os.Stat(destDir); os.IsNotExist(err) {
		return nil // nothing mirrored yet
	}
	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(destDir, path)
		if relErr != nil {
			return relErr
		}
		if _, present := sourceFiles[filepath.ToSlash(rel)]; !present {
			plan.Deletes = append(plan.Deletes, DeleteAction{Path: path, Boundary: destDir})
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CategorySync, errors.SeverityFatal,
			fmt.Sprintf("source %q: scanning destination %s", plan.Source, destDir))
	}
	return nil
}

// excluded matches an include-relative slash path against exclusion patterns.
// A pattern excludes the path when it is a subpath prefix, or when it glob-matches
// the whole relative path or its base name.
func excluded(rel string, patterns []string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, p := range patterns {
		p = strings.Trim(filepath.ToSlash(p), "/")
		if p == "" {
			continue
		}
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
