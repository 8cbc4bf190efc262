package toc

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docmirror/internal/config"
	"git.home.luguber.info/inful/docmirror/internal/logfields"
)

// orderFileName lists leading siblings for a directory when explicit
// ordering is enabled; unlisted siblings follow lexicographically.
const orderFileName = ".nav-order"

// Generator builds the navigation tree from the destination root.
type Generator struct {
	destRoot string
	cfg      config.TOCConfig

	// TitleFallbacks counts files whose title had to be derived from the
	// filename; aggregated into the end-of-run summary by the pipeline.
	TitleFallbacks int
}

// NewGenerator creates a generator over destRoot.
func NewGenerator(destRoot string, cfg config.TOCConfig) *Generator {
	return &Generator{destRoot: destRoot, cfg: cfg}
}

// Build walks the destination tree depth-first and returns the navigation
// root. An empty tree yields an empty but valid root, not an error.
func (g *Generator) Build() (*Node, error) {
	g.TitleFallbacks = 0
	// A destination that has never been synced is an empty tree.
	if _, err := os.Stat(g.destRoot); os.IsNotExist(err) {
		return &Node{IsGroup: true}, nil
	}
	root, err := g.buildDir(g.destRoot, "")
	if err != nil {
		return nil, err
	}
	if root == nil {
		root = &Node{IsGroup: true}
	}
	root.Title = ""
	return root, nil
}

// buildDir returns the group node for one directory, or nil when the
// directory contributes no navigable entries.
func (g *Generator) buildDir(dir, rel string) (*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	group := &Node{
		Title:   TitleFromFilename(filepath.Base(dir)),
		IsGroup: true,
	}

	ordered := g.orderEntries(dir, entries)
	for _, entry := range ordered {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := path.Join(rel, name)

		if entry.IsDir() {
			if g.isExcludedDir(name) {
				slog.Debug("Skipping non-navigable directory", logfields.Path(childRel))
				continue
			}
			child, err := g.buildDir(filepath.Join(dir, name), childRel)
			if err != nil {
				return nil, err
			}
			if child != nil && len(child.Children) > 0 {
				group.Children = append(group.Children, child)
			}
			continue
		}

		if !isMarkdownFile(name) {
			continue
		}
		group.Children = append(group.Children, g.fileNode(filepath.Join(dir, name), childRel))
	}

	if len(group.Children) == 0 {
		return nil, nil
	}
	return group, nil
}

// fileNode builds the entry for one markdown file. A malformed or
// headingless file degrades to a filename-derived title; it never aborts
// generation.
func (g *Generator) fileNode(fullPath, rel string) *Node {
	node := &Node{Path: rel}

	content, err := os.ReadFile(fullPath)
	if err == nil {
		if title, ok := ExtractTitle(content); ok {
			node.Title = title
			return node
		}
	} else {
		slog.Warn("Failed to read file for title extraction", logfields.File(rel), logfields.Error(err))
	}

	node.Title = TitleFromFilename(filepath.Base(rel))
	g.TitleFallbacks++
	slog.Warn("No top-level heading; using filename-derived title",
		logfields.File(rel),
		slog.String("title", node.Title))
	return node
}

// orderEntries applies the sibling ordering rule: index.md always first,
// then lexicographic by name. With explicit ordering enabled, names listed
// in the directory's .nav-order file come right after index.md in listed
// order, and unlisted siblings follow lexicographically.
func (g *Generator) orderEntries(dir string, entries []os.DirEntry) []os.DirEntry {
	rank := make(map[string]int, len(entries))
	if g.cfg.Order == config.OrderExplicit {
		for i, name := range readOrderFile(filepath.Join(dir, orderFileName)) {
			rank[name] = i + 1
		}
	}

	sorted := make([]os.DirEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i].Name(), sorted[j].Name(), rank)
	})
	return sorted
}

func less(a, b string, rank map[string]int) bool {
	ra, rb := entryRank(a, rank), entryRank(b, rank)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// entryRank maps a name to its sort class: 0 for index files, explicit
// positions next, everything else last (lexicographic among equals).
func entryRank(name string, rank map[string]int) int {
	if strings.EqualFold(name, "index.md") || strings.EqualFold(name, "_index.md") {
		return 0
	}
	if r, ok := rank[name]; ok {
		return r
	}
	if r, ok := rank[strings.TrimSuffix(name, filepath.Ext(name))]; ok {
		return r
	}
	return len(rank) + 1
}

// readOrderFile returns the names listed in a .nav-order file, one per line,
// comments and blanks skipped. A missing file means no explicit order.
func readOrderFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

func (g *Generator) isExcludedDir(name string) bool {
	for _, ex := range g.cfg.ExcludeDirs {
		if strings.EqualFold(name, ex) {
			return true
		}
	}
	return false
}

func isMarkdownFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
