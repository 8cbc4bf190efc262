// Package linkfix implements the link repair stage. Relative links break
// when a document moves from its source repository layout into the
// destination layout; the known breakages form an ordered table of scoped
// literal rewrite rules, and one generic engine interprets the table.
package linkfix

import (
	"git.home.luguber.info/inful/docmirror/internal/config"
)

// Rule is one scoped literal rewrite. Rules are data, not behavior: adding a
// fix is a configuration change, never a code change.
type Rule struct {
	Scope       string // Destination subdirectory the rule is eligible in
	Pattern     string // Literal text to find
	Replacement string
	Note        string // Human description for reports
}

// Describe returns the note when present, otherwise a pattern summary.
func (r Rule) Describe() string {
	if r.Note != "" {
		return r.Note
	}
	return r.Pattern + " -> " + r.Replacement
}

// FromConfig converts the configured rule list, preserving order. The order
// carries meaning: within a scope, specific rules precede general ones
// (config validation rejects the reverse).
func FromConfig(rules []config.RuleConfig) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, rc := range rules {
		out = append(out, Rule{
			Scope:       rc.Scope,
			Pattern:     rc.Pattern,
			Replacement: rc.Replacement,
			Note:        rc.Note,
		})
	}
	return out
}
