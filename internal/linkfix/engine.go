package linkfix

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docmirror/internal/logfields"
)

// Engine applies an ordered rule table to markdown files under a destination
// tree. Repair is best-effort: nothing in this stage is fatal.
type Engine struct {
	destRoot string
	rules    []Rule
}

// NewEngine creates an engine for the given destination root.
func NewEngine(destRoot string, rules []Rule) *Engine {
	return &Engine{destRoot: destRoot, rules: rules}
}

// Apply runs every rule in table order and returns the aggregated report.
// Rules for the same file compose: the output of an earlier rule is the
// input of a later one, which is why table order is a contract.
func (e *Engine) Apply() (*Report, error) {
	report := &Report{}
	changedFiles := make(map[string]struct{})

	for _, rule := range e.rules {
		outcome, err := e.applyRule(rule, changedFiles)
		if err != nil {
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		report.Replacements += outcome.Replacements

		if outcome.NoOp() {
			slog.Warn("Link rule matched nothing; candidate for retirement",
				logfields.Scope(rule.Scope),
				logfields.Rule(rule.Describe()))
		} else {
			slog.Info("Link rule applied",
				logfields.Scope(rule.Scope),
				logfields.Rule(rule.Describe()),
				slog.Int("files", outcome.FilesChanged),
				slog.Int("replacements", outcome.Replacements))
		}
	}

	report.FilesChanged = len(changedFiles)
	return report, nil
}

// applyRule is the single generic matcher: scope-filtered scan, literal
// substring replace, per-file count.
func (e *Engine) applyRule(rule Rule, changedFiles map[string]struct{}) (RuleOutcome, error) {
	outcome := RuleOutcome{Rule: rule}
	scopeDir := filepath.Join(e.destRoot, filepath.FromSlash(rule.Scope))

	if _, err := os.Stat(scopeDir); os.IsNotExist(err) {
		// Scope gone entirely; treated like any other zero-match rule.
		return outcome, nil
	}

	err := filepath.WalkDir(scopeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdownFile(path) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		count := strings.Count(string(content), rule.Pattern)
		if count == 0 {
			return nil
		}

		repaired := strings.ReplaceAll(string(content), rule.Pattern, rule.Replacement)
		if err := os.WriteFile(path, []byte(repaired), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		outcome.FilesChanged++
		outcome.Replacements += count
		changedFiles[path] = struct{}{}

		slog.Debug("Rewrote links",
			logfields.File(path),
			logfields.Rule(rule.Describe()),
			logfields.Count(count))
		return nil
	})
	if err != nil {
		return outcome, fmt.Errorf("scope %s: %w", rule.Scope, err)
	}
	return outcome, nil
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
