package kinetics

import (
	"fmt"
	"sync"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Stage names where a diagnostic originated.
type Stage string

const (
	StageLoad     Stage = "load"
	StageCompile  Stage = "compile"
	StageEvaluate Stage = "evaluate"
)

// Diagnostic is a non-fatal problem attached to a reaction or species.
// Count is how many times an evaluation diagnostic fired during a run.
type Diagnostic struct {
	Severity   Severity `json:"severity"`
	Stage      Stage    `json:"stage"`
	ReactionID string   `json:"reaction_id,omitempty"`
	SpeciesID  string   `json:"species_id,omitempty"`
	Message    string   `json:"message"`
	Count      int      `json:"count,omitempty"`
	Err        error    `json:"-"`
}

func (d Diagnostic) String() string {
	subject := d.ReactionID
	if subject == "" {
		subject = d.SpeciesID
	}
	s := fmt.Sprintf("[%s/%s] %s: %s", d.Stage, d.Severity, subject, d.Message)
	if d.Count > 1 {
		s += fmt.Sprintf(" (x%d)", d.Count)
	}
	return s
}

// Diagnostics collects diagnostics for one load or one run. Evaluation
// diagnostics are folded per reaction so a failing rate law does not grow
// the sink at every step.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
	evals map[string]int
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{evals: make(map[string]int)}
}

func (d *Diagnostics) Add(diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if diag.Count == 0 {
		diag.Count = 1
	}
	d.items = append(d.items, diag)
}

// ReportEvaluation records that reactionID produced a non-finite rate.
func (d *Diagnostics) ReportEvaluation(reactionID string, value float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.evals == nil {
		d.evals = make(map[string]int)
	}
	if i, ok := d.evals[reactionID]; ok {
		d.items[i].Count++
		return
	}
	d.evals[reactionID] = len(d.items)
	d.items = append(d.items, Diagnostic{
		Severity:   SeverityWarning,
		Stage:      StageEvaluate,
		ReactionID: reactionID,
		Message:    fmt.Sprintf("rate evaluated to %v; using 0", value),
		Count:      1,
	})
}

// Items returns a snapshot of the collected diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// ForReaction returns the diagnostics attached to one reaction.
func (d *Diagnostics) ForReaction(id string) []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Diagnostic
	for _, diag := range d.items {
		if diag.ReactionID == id {
			out = append(out, diag)
		}
	}
	return out
}
