package toc

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/docmirror/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func lexCfg() config.TOCConfig {
	return config.TOCConfig{
		ExcludeDirs: []string{"assets", "images"},
		Order:       config.OrderLexicographic,
	}
}

func TestBuildContainsEveryMarkdownFileExactlyOnce(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "index.md"), "# Home\n")
	writeFile(t, filepath.Join(dest, "guides/quick-start.md"), "# Quick Start\n")
	writeFile(t, filepath.Join(dest, "guides/setup.md"), "# Setup\n")
	writeFile(t, filepath.Join(dest, "architecture/crate-architecture.md"), "# Crate Architecture\n")
	writeFile(t, filepath.Join(dest, "architecture/diagram.svg"), "<svg/>")
	writeFile(t, filepath.Join(dest, "assets/readme.md"), "# Asset Notes\n")

	gen := NewGenerator(dest, lexCfg())
	root, err := gen.Build()
	require.NoError(t, err)

	// Bijection: one entry per non-excluded markdown file, nothing else.
	assert.ElementsMatch(t, []string{
		"index.md",
		"guides/quick-start.md",
		"guides/setup.md",
		"architecture/crate-architecture.md",
	}, root.Flatten())
	assert.Equal(t, 4, root.EntryCount())
}

func TestBuildUsesFirstHeadingAsTitle(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "a.md"), "# Proper Title\n\nBody.\n")

	root, err := NewGenerator(dest, lexCfg()).Build()
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Proper Title", root.Children[0].Title)
}

func TestBuildFallsBackToFilenameTitle(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "quick-start.md"), "No heading here.\n")

	gen := NewGenerator(dest, lexCfg())
	root, err := gen.Build()
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Quick Start", root.Children[0].Title)
	assert.Equal(t, 1, gen.TitleFallbacks)
}

func TestBuildOrdersIndexFirstThenLexicographic(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "guides/zebra.md"), "# Zebra\n")
	writeFile(t, filepath.Join(dest, "guides/alpha.md"), "# Alpha\n")
	writeFile(t, filepath.Join(dest, "guides/index.md"), "# Guides\n")

	root, err := NewGenerator(dest, lexCfg()).Build()
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	guides := root.Children[0]
	require.True(t, guides.IsGroup)

	var names []string
	for _, c := range guides.Children {
		names = append(names, c.Path)
	}
	assert.Equal(t, []string{
		"guides/index.md",
		"guides/alpha.md",
		"guides/zebra.md",
	}, names)
}

func TestBuildExplicitOrderHonorsNavOrderFile(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "guides/alpha.md"), "# Alpha\n")
	writeFile(t, filepath.Join(dest, "guides/middle.md"), "# Middle\n")
	writeFile(t, filepath.Join(dest, "guides/zebra.md"), "# Zebra\n")
	writeFile(t, filepath.Join(dest, "guides/.nav-order"), "# curated leading entries\nzebra.md\nmiddle\n")

	cfg := lexCfg()
	cfg.Order = config.OrderExplicit
	root, err := NewGenerator(dest, cfg).Build()
	require.NoError(t, err)
	guides := root.Children[0]

	var names []string
	for _, c := range guides.Children {
		names = append(names, c.Path)
	}
	// Listed entries first in listed order; unlisted follow lexicographically.
	assert.Equal(t, []string{
		"guides/zebra.md",
		"guides/middle.md",
		"guides/alpha.md",
	}, names)
}

func TestBuildSkipsEmptyAndExcludedDirectories(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "real/doc.md"), "# Doc\n")
	writeFile(t, filepath.Join(dest, "images/logo.png"), "png")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "empty"), 0o750))
	writeFile(t, filepath.Join(dest, "only-assets/chart.svg"), "<svg/>")

	root, err := NewGenerator(dest, lexCfg()).Build()
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Real", root.Children[0].Title)
}

func TestBuildEmptyTree(t *testing.T) {
	root, err := NewGenerator(t.TempDir(), lexCfg()).Build()
	require.NoError(t, err)
	assert.True(t, root.IsGroup)
	assert.Empty(t, root.Children)
	assert.Equal(t, 0, root.EntryCount())
}

func TestBuildMissingDestinationRoot(t *testing.T) {
	// A destination that was never synced behaves like an empty tree.
	root, err := NewGenerator(filepath.Join(t.TempDir(), "never-synced"), lexCfg()).Build()
	require.NoError(t, err)
	assert.True(t, root.IsGroup)
	assert.Empty(t, root.Children)
	assert.Equal(t, 0, root.EntryCount())
}

func TestBuildIsDeterministic(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "b/doc.md"), "# B Doc\n")
	writeFile(t, filepath.Join(dest, "a/doc.md"), "# A Doc\n")
	writeFile(t, filepath.Join(dest, "index.md"), "# Home\n")

	first, err := NewGenerator(dest, lexCfg()).Build()
	require.NoError(t, err)
	second, err := NewGenerator(dest, lexCfg()).Build()
	require.NoError(t, err)

	firstBytes, err := MarshalManifest(first)
	require.NoError(t, err)
	secondBytes, err := MarshalManifest(second)
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
}
