package domain

import (
	"context"
	"fmt"
	"log/slog"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// Rewriter runs one rule against the tree in the requested mode.
type Rewriter interface {
	Rewrite(ctx context.Context, tree Tree, phase int, rule Rule, mode m.Mode) (m.RuleOutcome, error)
}

type rewriter struct{}

// NewRewriter creates a Rewriter.
func NewRewriter() Rewriter {
	return &rewriter{}
}

// Rewrite applies the rule in Apply mode, or only computes its edits in
// DryRun and ReportOnly. All three modes report the same file count for the
// same tree.
func (rw *rewriter) Rewrite(ctx context.Context, tree Tree, phase int, rule Rule, mode m.Mode) (m.RuleOutcome, error) {
	outcome := m.RuleOutcome{
		RuleID:      rule.ID(),
		Description: rule.Description(),
		Phase:       phase,
		Status:      m.RuleSkipped,
	}

	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	var (
		edits []m.Edit
		err   error
	)

	if mode.Mutates() {
		edits, err = rule.Apply(ctx, tree)
	} else {
		edits, err = rule.Matches(ctx, tree)
	}

	outcome.Edits = edits

	if err != nil {
		slog.Error("Rule failed", "rule", rule.ID(), "phase", phase, "mode", mode, "error", err)
		return outcome, fmt.Errorf("rule %s: %w", rule.ID(), err)
	}

	if len(edits) == 0 {
		slog.Debug("Rule skipped", "rule", rule.ID(), "phase", phase)
		return outcome, nil
	}

	switch mode {
	case m.Apply:
		outcome.Status = m.RuleApplied
	case m.DryRun:
		outcome.Status = m.RuleWouldChange
	case m.ReportOnly:
		outcome.Status = m.RuleFound
	}

	slog.Info("Rule matched", "rule", rule.ID(), "phase", phase, "mode", mode, "files", outcome.Files())

	return outcome, nil
}
