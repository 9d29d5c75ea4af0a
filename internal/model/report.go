package model

import "time"

// Edit is the effect of one rule on one file. Multiple occurrences inside a
// file still count as a single change.
type Edit struct {
	Path        Path
	Occurrences int
	Before      []byte
	After       []byte
}

// RuleStatus is the outcome class of a rule invocation.
type RuleStatus int

const (
	// RuleSkipped means no file matched.
	RuleSkipped RuleStatus = iota
	// RuleApplied means files were rewritten.
	RuleApplied
	// RuleWouldChange means files would be rewritten (dry-run).
	RuleWouldChange
	// RuleFound means files match (report-only).
	RuleFound
)

func (s RuleStatus) String() string {
	switch s {
	case RuleSkipped:
		return "skipped"
	case RuleApplied:
		return "applied"
	case RuleWouldChange:
		return "would-change"
	case RuleFound:
		return "found"
	}

	return "unknown"
}

// RuleOutcome records what a single rule invocation did.
type RuleOutcome struct {
	RuleID      string
	Description string
	Phase       int
	Status      RuleStatus
	Edits       []Edit
}

// Files returns the number of files the rule touched or would touch.
func (o RuleOutcome) Files() int {
	return len(o.Edits)
}

// Occurrences sums matches across all edited files.
func (o RuleOutcome) Occurrences() int {
	total := 0
	for _, edit := range o.Edits {
		total += edit.Occurrences
	}

	return total
}

// GateOutcome is the result of a compile or test gate.
type GateOutcome struct {
	Kind     GateKind
	Passed   bool
	Output   string
	Duration time.Duration
}

// PhaseResult collects rule outcomes and the gate result of one phase.
type PhaseResult struct {
	Number   int
	Name     string
	Outcomes []RuleOutcome
	Gate     *GateOutcome
}

// Location is a single pattern hit found by the validator.
type Location struct {
	Path Path
	Line int
	Text string
}

// CheckResult is the outcome of one validator check.
type CheckResult struct {
	ID          string
	Description string
	Expect      Expectation
	Count       int
	Passed      bool
	Locations   []Location
}

// PreflightResult captures the environment detected before any mutation.
type PreflightResult struct {
	GitRepo       bool
	CleanTree     bool
	Branch        string
	BranchCreated bool
	JavaMajor     int
	BuildTool     BuildTool
	Warnings      []string
}

// Report is threaded through a run and returned to the caller in place of
// process-wide counters.
type Report struct {
	Mode      Mode
	Preflight PreflightResult
	Phases    []PhaseResult
	Checks    []CheckResult

	// TotalChanges sums files touched per rule invocation.
	TotalChanges int
	// FilesTouched counts distinct files touched by any rule.
	FilesTouched int
	Warnings     []string

	// FailedChecks counts failing validator checks; Findings sums their hits.
	FailedChecks int
	Findings     int

	LastCompletedPhase int
	HaltedAt           int

	FingerprintBefore string
	FingerprintAfter  string

	touched map[Path]struct{}
}

// AddOutcome folds a rule outcome into the counters.
func (r *Report) AddOutcome(outcome RuleOutcome) {
	if outcome.Status == RuleSkipped {
		return
	}

	if r.touched == nil {
		r.touched = make(map[Path]struct{})
	}

	r.TotalChanges += outcome.Files()

	for _, edit := range outcome.Edits {
		r.touched[edit.Path] = struct{}{}
	}

	r.FilesTouched = len(r.touched)
}

// AddCheck folds a validator result into the counters.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)

	if check.Passed {
		return
	}

	r.FailedChecks++

	// A missing required pattern is a single finding.
	if check.Count == 0 {
		r.Findings++
		return
	}

	r.Findings += check.Count
}

// Warn records a categorized warning for the summary.
func (r *Report) Warn(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Halted reports whether a gate stopped the run.
func (r *Report) Halted() bool {
	return r.HaltedAt != 0
}
