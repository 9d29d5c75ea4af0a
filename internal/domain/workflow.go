package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
	"bootmigrate.dev/pkg/bootmigrate/internal/controller"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// MigrateArgs contains the arguments of a migration run. Gates only ever run
// in Apply mode; an empty Branch falls back to the rule set's branch.
type MigrateArgs struct {
	Root         m.Path
	RulesFile    m.Path
	Exclude      []string
	Mode         m.Mode
	Phases       PhaseRange
	Gates        bool
	BuildTool    m.BuildTool
	Branch       string
	CreateBranch bool
	Interactive  bool
	ShowDiff     bool
}

// ValidateArgs contains the arguments of a standalone validation run.
type ValidateArgs struct {
	Root      m.Path
	RulesFile m.Path
	Exclude   []string
	BuildTool m.BuildTool
}

// RulesArgs contains the arguments for listing or exporting a rule set.
type RulesArgs struct {
	RulesFile m.Path
	Export    bool
	Out       io.Writer
}

// Workflow is the entry point of every command.
type Workflow interface {
	Migrate(ctx context.Context, args MigrateArgs) (m.Report, error)
	Validate(ctx context.Context, args ValidateArgs) (m.Report, error)
	Rules(ctx context.Context, args RulesArgs) error
}

type workflow struct {
	adapter.RuleStore
	adapter.SourceFSAdapter
	adapter.BuildRunnerAdapter
	controller.UI
	Preflight
	sequencer Sequencer
	validator Validator
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	ruleStore adapter.RuleStore,
	fsAdapter adapter.SourceFSAdapter,
	buildRunner adapter.BuildRunnerAdapter,
	ui controller.UI,
	preflight Preflight,
	sequencer Sequencer,
	validator Validator,
) Workflow {
	return &workflow{
		RuleStore:          ruleStore,
		SourceFSAdapter:    fsAdapter,
		BuildRunnerAdapter: buildRunner,
		UI:                 ui,
		Preflight:          preflight,
		sequencer:          sequencer,
		validator:          validator,
	}
}

func (w *workflow) loadPlan(ctx context.Context, rulesFile m.Path) (*Plan, error) {
	ruleSet, err := w.LoadRuleSet(ctx, rulesFile)
	if err != nil {
		slog.Error("Failed to load rule set", "file", rulesFile, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSet, err)
	}

	plan, err := CompilePlan(ruleSet)
	if err != nil {
		slog.Error("Failed to compile rule set", "name", ruleSet.Name, "error", err)
		return nil, err
	}

	return plan, nil
}

func (w *workflow) Migrate(ctx context.Context, args MigrateArgs) (m.Report, error) {
	report := m.Report{Mode: args.Mode}

	phases := args.Phases
	if phases == (PhaseRange{}) {
		phases = FullRange()
	}

	plan, err := w.loadPlan(ctx, args.RulesFile)
	if err != nil {
		return report, err
	}

	branch := args.Branch
	if branch == "" {
		branch = plan.RuleSet.Branch
	}

	preflightResult, err := w.Preflight.Run(ctx, PreflightArgs{
		Root:         args.Root,
		Mode:         args.Mode,
		BuildTool:    args.BuildTool,
		TargetJava:   plan.RuleSet.TargetJava,
		Branch:       branch,
		CreateBranch: args.CreateBranch,
		Interactive:  args.Interactive,
	})
	report.Preflight = preflightResult

	if err != nil {
		return report, fmt.Errorf("preflight: %w", err)
	}

	w.DisplayPreflight(ctx, preflightResult)

	tree := NewTree(args.Root, w.SourceFSAdapter, args.Exclude...)

	if !args.Mode.Mutates() {
		report.FingerprintBefore, err = w.HashTree(ctx, args.Root)
		if err != nil {
			return report, fmt.Errorf("fingerprint: %w", err)
		}
	}

	var gates Gates
	if args.Gates && args.Mode.Mutates() {
		gates = NewBuildGates(w.BuildRunnerAdapter, args.Root, preflightResult.BuildTool)
	}

	slog.Info("Starting migration",
		"rules", plan.RuleSet.Name, "mode", args.Mode, "phases", phases.String(), "tool", preflightResult.BuildTool)

	runErr := w.sequencer.Run(ctx, SequenceArgs{
		Tree:     tree,
		Plan:     plan,
		Tool:     preflightResult.BuildTool,
		Range:    phases,
		Mode:     args.Mode,
		Gates:    gates,
		ShowDiff: args.ShowDiff,
	}, &report)

	if !args.Mode.Mutates() {
		report.FingerprintAfter, err = w.HashTree(ctx, args.Root)
		if err != nil {
			return report, errors.Join(runErr, fmt.Errorf("fingerprint: %w", err))
		}

		if report.FingerprintAfter != report.FingerprintBefore {
			slog.Error("Working tree changed during a read-only run", "mode", args.Mode)
			report.Warn(fmt.Sprintf("working tree changed during %s run", args.Mode))
		}
	}

	var gateErr *GateError
	if errors.As(runErr, &gateErr) {
		w.DisplayHalt(ctx, gateErr.Phase, gateErr.LastCompleted, gateErr.Resume.String())
		w.DisplaySummary(ctx, report)

		return report, gateErr
	}

	if runErr != nil {
		slog.Error("Migration failed", "error", runErr)
		return report, runErr
	}

	w.DisplaySummary(ctx, report)

	return report, nil
}

// Validate runs the checks alone. An undetectable build tool is a warning:
// only checks without a build tool filter run.
func (w *workflow) Validate(ctx context.Context, args ValidateArgs) (m.Report, error) {
	report := m.Report{Mode: m.ReportOnly}

	plan, err := w.loadPlan(ctx, args.RulesFile)
	if err != nil {
		return report, err
	}

	tool, err := w.DetectBuildTool(ctx, args.Root, args.BuildTool)
	if err != nil {
		if !errors.Is(err, ErrNoBuildTool) {
			return report, err
		}

		report.Warn("no build tool detected; build-specific checks skipped")
	}

	report.Preflight.BuildTool = tool

	tree := NewTree(args.Root, w.SourceFSAdapter, args.Exclude...)

	results, err := w.validator.Validate(ctx, tree, plan.ChecksFor(tool))
	if err != nil {
		slog.Error("Validation failed", "root", args.Root, "error", err)
		return report, fmt.Errorf("validate: %w", err)
	}

	recordChecks(ctx, w.UI, results, &report)
	w.DisplaySummary(ctx, report)

	return report, nil
}

// Rules prints the phases and rules of the rule set, or the yaml document
// itself when exporting.
func (w *workflow) Rules(ctx context.Context, args RulesArgs) error {
	plan, err := w.loadPlan(ctx, args.RulesFile)
	if err != nil {
		return err
	}

	if !args.Export {
		w.DisplayRules(ctx, plan.RuleSet)
		return nil
	}

	data := w.DefaultRuleSet()

	if args.RulesFile != "" {
		data, err = w.ReadFile(ctx, args.RulesFile)
		if err != nil {
			return fmt.Errorf("reading rule set: %w", err)
		}
	}

	if _, err := args.Out.Write(data); err != nil {
		return fmt.Errorf("export rule set: %w", err)
	}

	return nil
}
