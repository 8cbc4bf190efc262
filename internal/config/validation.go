package config

import (
	"fmt"
	"strings"
)

// Validate checks structural invariants of a loaded configuration.
// Called automatically by Load; exported for tests and programmatic construction.
func (c *Config) Validate() error {
	if c.Destination == "" {
		return fmt.Errorf("destination must not be empty")
	}

	seen := make(map[string]struct{})
	for _, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source with empty name")
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("duplicate source name: %s", src.Name)
		}
		seen[src.Name] = struct{}{}
		for _, inc := range src.Include {
			if inc.Path == "" {
				return fmt.Errorf("source %s: include with empty path", src.Name)
			}
			if strings.HasPrefix(inc.Dest, "..") {
				return fmt.Errorf("source %s: include dest escapes destination tree: %s", src.Name, inc.Dest)
			}
		}
	}

	switch c.TOC.Order {
	case OrderLexicographic, OrderExplicit:
	default:
		return fmt.Errorf("toc.order must be %q or %q, got %q", OrderLexicographic, OrderExplicit, c.TOC.Order)
	}

	return c.validateRuleOrder()
}

// validateRuleOrder rejects rule tables where a general rule precedes a more
// specific one in the same scope. If the general pattern (a strict substring)
// ran first, its replacement would consume the text the specific rule needs,
// so the specific rule could never match.
func (c *Config) validateRuleOrder() error {
	for i, r := range c.LinkRules {
		if r.Pattern == "" {
			return fmt.Errorf("link rule %d (scope %q): empty pattern", i, r.Scope)
		}
		if r.Pattern == r.Replacement {
			return fmt.Errorf("link rule %d (scope %q): replacement equals pattern", i, r.Scope)
		}
		for j := i + 1; j < len(c.LinkRules); j++ {
			later := c.LinkRules[j]
			if later.Scope != r.Scope {
				continue
			}
			if r.Pattern != later.Pattern && strings.Contains(later.Pattern, r.Pattern) {
				return fmt.Errorf(
					"link rule ordering in scope %q: general pattern %q precedes specific pattern %q and would shadow it",
					r.Scope, r.Pattern, later.Pattern)
			}
		}
	}
	return nil
}
