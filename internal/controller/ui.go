// Package controller provides the console output for migration runs.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// UI defines how migration progress and results are displayed.
//
//nolint:interfacebloat // One method per event the workflow reports.
type UI interface {
	DisplayPreflight(ctx context.Context, result m.PreflightResult)
	DisplayPhaseStart(ctx context.Context, mode m.Mode, number int, name string)
	DisplayRuleOutcome(ctx context.Context, mode m.Mode, outcome m.RuleOutcome)
	DisplayDiff(ctx context.Context, path m.Path, edit m.Edit)
	DisplayGateOutcome(ctx context.Context, phase int, outcome m.GateOutcome)
	DisplayCheckResult(ctx context.Context, result m.CheckResult)
	DisplayHalt(ctx context.Context, phase int, lastCompleted int, resume string)
	DisplaySummary(ctx context.Context, report m.Report)
	DisplayRules(ctx context.Context, ruleSet m.RuleSet)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
