package pipeline

import "fmt"

// State is the pipeline-level lifecycle state.
type State string

const (
	StateIdle          State = "idle"
	StateSyncing       State = "syncing"
	StateRepairing     State = "repairing"
	StateGeneratingTOC State = "generating_toc"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// transitions encodes the allowed state machine:
// Idle -> Syncing -> Repairing -> GeneratingTOC -> Done, with Failed
// reachable only from Syncing (repair and TOC generation cannot fail a run).
var transitions = map[State][]State{
	StateIdle:          {StateSyncing},
	StateSyncing:       {StateRepairing, StateFailed},
	StateRepairing:     {StateGeneratingTOC},
	StateGeneratingTOC: {StateDone},
	StateDone:          {},
	StateFailed:        {},
}

// transition validates and performs a state change.
func (p *Pipeline) transition(next State) error {
	for _, allowed := range transitions[p.state] {
		if allowed == next {
			p.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid pipeline transition %s -> %s", p.state, next)
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}
