package linkfix

// RuleOutcome records what one rule did across its scope.
type RuleOutcome struct {
	Rule         Rule
	FilesChanged int
	Replacements int
}

// NoOp reports whether the rule matched nothing. A stale rule is not an
// error (upstream content may have fixed the link already) but maintainers
// want to see it so the rule can be retired.
func (o RuleOutcome) NoOp() bool {
	return o.Replacements == 0
}

// Report aggregates a full repair pass.
type Report struct {
	Outcomes     []RuleOutcome
	FilesChanged int
	Replacements int
}

// StaleRules returns the rules that matched zero files in their scope.
func (r *Report) StaleRules() []RuleOutcome {
	var stale []RuleOutcome
	for _, o := range r.Outcomes {
		if o.NoOp() {
			stale = append(stale, o)
		}
	}
	return stale
}
