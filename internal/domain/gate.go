package domain

import (
	"context"
	"log/slog"
	"time"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// Gate is a post-phase verification. A failed build is reported through
// GateOutcome.Passed; the error is reserved for cancellation.
type Gate interface {
	Run(ctx context.Context) (m.GateOutcome, error)
}

// Gates maps gate kinds to their implementation. A nil map disables gating.
type Gates map[m.GateKind]Gate

type buildGate struct {
	kind   m.GateKind
	runner adapter.BuildRunnerAdapter
	root   m.Path
	tool   m.BuildTool
}

// NewBuildGates returns compile and test gates that shell out to the build tool.
func NewBuildGates(runner adapter.BuildRunnerAdapter, root m.Path, tool m.BuildTool) Gates {
	return Gates{
		m.GateCompile: &buildGate{kind: m.GateCompile, runner: runner, root: root, tool: tool},
		m.GateTest:    &buildGate{kind: m.GateTest, runner: runner, root: root, tool: tool},
	}
}

func (g *buildGate) Run(ctx context.Context) (m.GateOutcome, error) {
	start := time.Now()

	var (
		output string
		err    error
	)

	switch g.kind {
	case m.GateTest:
		output, err = g.runner.Test(ctx, g.root, g.tool)
	default:
		output, err = g.runner.Compile(ctx, g.root, g.tool)
	}

	outcome := m.GateOutcome{
		Kind:     g.kind,
		Passed:   err == nil,
		Output:   output,
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}

	if err != nil {
		slog.Error("Gate failed", "gate", g.kind, "tool", g.tool, "error", err)
	}

	return outcome, nil
}
