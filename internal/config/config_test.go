package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "docmirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: engine
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./docs", cfg.Destination)
	assert.Equal(t, filepath.Join("./docs", "nav.yml"), cfg.Manifest)
	assert.Equal(t, OrderLexicographic, cfg.TOC.Order)
	assert.Equal(t, []string{"assets", "images", "static"}, cfg.TOC.ExcludeDirs)

	require.Len(t, cfg.Sources, 1)
	src := cfg.Sources[0]
	assert.Equal(t, filepath.Join("..", "engine"), src.Root)
	require.Len(t, src.Include, 1)
	assert.Equal(t, "docs", src.Include[0].Path)
	assert.Equal(t, "engine", src.Include[0].Dest)
}

func TestLoadResolvesAgainstConfigDir(t *testing.T) {
	path := writeConfig(t, `
destination: ./site-docs
sources:
  - name: engine
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(path), cfg.BaseDir)
	assert.Equal(t, filepath.Join(cfg.BaseDir, "site-docs"), cfg.DestinationDir())
	assert.Equal(t, filepath.Join(cfg.BaseDir, "site-docs", "nav.yml"), cfg.ManifestPath())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCS_DEST", "/srv/published")
	path := writeConfig(t, `
destination: ${DOCS_DEST}
sources:
  - name: engine
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/published", cfg.Destination)
	assert.Equal(t, "/srv/published", cfg.DestinationDir())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateRejectsDuplicateSources(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: engine
  - name: engine
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate source name")
}

func TestValidateRejectsBadOrderMode(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: engine
toc:
  order: random
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toc.order")
}

func TestValidateRejectsShadowingRuleOrder(t *testing.T) {
	// The general pattern precedes the specific one; running it first would
	// rewrite the text the specific rule needs.
	path := writeConfig(t, `
sources:
  - name: engine
link_rules:
  - scope: architecture
    pattern: "](setup.md"
    replacement: "](../guides/setup.md"
  - scope: architecture
    pattern: "](setup.md#install"
    replacement: "](../guides/setup.md#install"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadow")
}

func TestValidateAllowsSpecificBeforeGeneral(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: engine
link_rules:
  - scope: architecture
    pattern: "](setup.md#install"
    replacement: "](../guides/setup.md#install"
  - scope: architecture
    pattern: "](setup.md"
    replacement: "](../guides/setup.md"
`)
	_, err := Load(path)
	require.NoError(t, err)
}

func TestValidateScopesIndependent(t *testing.T) {
	// Identical general/specific patterns in different scopes never shadow.
	path := writeConfig(t, `
sources:
  - name: engine
link_rules:
  - scope: guides
    pattern: "](setup.md"
    replacement: "](../guides/setup.md"
  - scope: architecture
    pattern: "](setup.md#install"
    replacement: "](../guides/setup.md#install"
`)
	_, err := Load(path)
	require.NoError(t, err)
}

func TestSourceEnvVar(t *testing.T) {
	assert.Equal(t, "DOCMIRROR_SOURCE_ENGINE", SourceEnvVar("engine"))
	assert.Equal(t, "DOCMIRROR_SOURCE_MY_REPO", SourceEnvVar("my-repo"))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmirror.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Sources)
	assert.NotEmpty(t, cfg.LinkRules)

	// Second init without force must refuse to clobber.
	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}
