package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"bootmigrate.dev/pkg/bootmigrate/internal/controller"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// PhaseRange is an inclusive range of phase numbers.
type PhaseRange struct {
	From int
	To   int
}

// FullRange selects every phase.
func FullRange() PhaseRange {
	return PhaseRange{From: 1, To: MaxPhase}
}

// ParsePhaseRange parses "N" or "N-M" with 1 <= N <= M <= MaxPhase. An empty
// string selects every phase.
func ParsePhaseRange(value string) (PhaseRange, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return FullRange(), nil
	}

	fromStr, toStr, isRange := strings.Cut(value, "-")
	if !isRange {
		toStr = fromStr
	}

	from, err := strconv.Atoi(strings.TrimSpace(fromStr))
	if err != nil {
		return PhaseRange{}, fmt.Errorf("%w: %q", ErrInvalidPhaseRange, value)
	}

	to, err := strconv.Atoi(strings.TrimSpace(toStr))
	if err != nil {
		return PhaseRange{}, fmt.Errorf("%w: %q", ErrInvalidPhaseRange, value)
	}

	if from < 1 || to > MaxPhase || from > to {
		return PhaseRange{}, fmt.Errorf("%w: %q (want N or N-M with 1 <= N <= M <= %d)", ErrInvalidPhaseRange, value, MaxPhase)
	}

	return PhaseRange{From: from, To: to}, nil
}

// Contains reports whether phase is inside the range.
func (r PhaseRange) Contains(phase int) bool {
	return phase >= r.From && phase <= r.To
}

func (r PhaseRange) String() string {
	if r.From == r.To {
		return strconv.Itoa(r.From)
	}

	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// SequenceArgs holds the inputs of one sequencer run.
type SequenceArgs struct {
	Tree     Tree
	Plan     *Plan
	Tool     m.BuildTool
	Range    PhaseRange
	Mode     m.Mode
	Gates    Gates
	ShowDiff bool
}

// Sequencer runs the selected phases in ascending order and halts on the
// first failing gate. Nothing is rolled back.
type Sequencer interface {
	Run(ctx context.Context, args SequenceArgs, report *m.Report) error
}

type sequencer struct {
	Rewriter
	Validator
	controller.UI
}

// NewSequencer creates a Sequencer.
func NewSequencer(rewriter Rewriter, validator Validator, ui controller.UI) Sequencer {
	return &sequencer{
		Rewriter:  rewriter,
		Validator: validator,
		UI:        ui,
	}
}

func (s *sequencer) Run(ctx context.Context, args SequenceArgs, report *m.Report) error {
	for _, phase := range args.Plan.Phases {
		if !args.Range.Contains(phase.Number) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		slog.Info("Starting phase", "phase", phase.Number, "name", phase.Name, "mode", args.Mode)
		s.DisplayPhaseStart(ctx, args.Mode, phase.Number, phase.Name)

		result := m.PhaseResult{Number: phase.Number, Name: phase.Name}

		for _, rule := range phase.RulesFor(args.Tool) {
			outcome, err := s.Rewrite(ctx, args.Tree, phase.Number, rule, args.Mode)

			report.AddOutcome(outcome)
			result.Outcomes = append(result.Outcomes, outcome)

			if err != nil {
				report.Phases = append(report.Phases, result)
				return fmt.Errorf("phase %d: %w", phase.Number, err)
			}

			s.DisplayRuleOutcome(ctx, args.Mode, outcome)

			if args.ShowDiff {
				for _, edit := range outcome.Edits {
					s.DisplayDiff(ctx, args.Tree.Rel(edit.Path), edit)
				}
			}
		}

		if phase.Validate {
			if err := s.runChecks(ctx, args.Tree, args.Plan.ChecksFor(args.Tool), report); err != nil {
				report.Phases = append(report.Phases, result)
				return fmt.Errorf("phase %d: %w", phase.Number, err)
			}
		}

		gateErr, err := s.runGate(ctx, args, phase, report.LastCompletedPhase, &result)

		report.Phases = append(report.Phases, result)

		if err != nil {
			return fmt.Errorf("phase %d: %w", phase.Number, err)
		}

		if gateErr != nil {
			report.HaltedAt = phase.Number
			return gateErr
		}

		report.LastCompletedPhase = phase.Number
	}

	return nil
}

// runGate runs the phase's gate when gating applies. A failed gate is
// returned as a GateError carrying the last phase completed in this run;
// err is reserved for cancellation.
func (s *sequencer) runGate(
	ctx context.Context,
	args SequenceArgs,
	phase Phase,
	lastCompleted int,
	result *m.PhaseResult,
) (*GateError, error) {
	if !args.Mode.Mutates() || args.Gates == nil || phase.Gate == m.GateNone {
		return nil, nil
	}

	gate, ok := args.Gates[phase.Gate]
	if !ok {
		slog.Warn("No gate configured", "phase", phase.Number, "gate", phase.Gate)
		return nil, nil
	}

	slog.Info("Running gate", "phase", phase.Number, "gate", phase.Gate)

	outcome, err := gate.Run(ctx)
	result.Gate = &outcome

	if err != nil {
		return nil, err
	}

	s.DisplayGateOutcome(ctx, phase.Number, outcome)

	if outcome.Passed {
		return nil, nil
	}

	return &GateError{
		Phase:         phase.Number,
		Kind:          phase.Gate,
		LastCompleted: lastCompleted,
		Resume:        PhaseRange{From: phase.Number, To: args.Range.To},
	}, nil
}

func (s *sequencer) runChecks(ctx context.Context, tree Tree, checks []Check, report *m.Report) error {
	results, err := s.Validate(ctx, tree, checks)
	if err != nil {
		slog.Error("Validation failed", "error", err)
		return fmt.Errorf("validate: %w", err)
	}

	recordChecks(ctx, s.UI, results, report)

	return nil
}

func recordChecks(ctx context.Context, ui controller.UI, results []m.CheckResult, report *m.Report) {
	for _, result := range results {
		report.AddCheck(result)
		ui.DisplayCheckResult(ctx, result)

		if result.Passed {
			continue
		}

		if result.Expect == m.ExpectPresent {
			report.Warn(fmt.Sprintf("check %s: expected pattern not found", result.ID))
			continue
		}

		report.Warn(fmt.Sprintf("check %s: %d leftover occurrence(s)", result.ID, result.Count))
	}
}
