// Package domain contains the migration workflow: preflight checks, the
// pattern rewriter, the phase sequencer and the validator.
package domain

import (
	"errors"
	"fmt"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

var (
	// ErrNoBuildTool is returned when neither a Maven nor a Gradle descriptor exists.
	ErrNoBuildTool = errors.New("no build tool detected (expected pom.xml, build.gradle or build.gradle.kts)")
	// ErrGateFailed is wrapped by GateError.
	ErrGateFailed = errors.New("gate failed")
	// ErrAborted is returned when the operator declines to continue.
	ErrAborted = errors.New("migration aborted by operator")
	// ErrInvalidPhaseRange is returned for malformed --phase values.
	ErrInvalidPhaseRange = errors.New("invalid phase range")
	// ErrInvalidRuleSet is returned when a rule set fails validation.
	ErrInvalidRuleSet = errors.New("invalid rule set")
)

// GateError reports the phase whose gate halted the sequencer. Changes made
// before the failure stay on disk.
type GateError struct {
	Phase         int
	Kind          m.GateKind
	LastCompleted int
	Resume        PhaseRange
}

func (e *GateError) Error() string {
	return fmt.Sprintf("phase %d %s gate failed (last completed phase: %d)", e.Phase, e.Kind, e.LastCompleted)
}

// Unwrap lets errors.Is match ErrGateFailed.
func (e *GateError) Unwrap() error {
	return ErrGateFailed
}

func invalidRuleSet(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRuleSet, fmt.Sprintf(format, args...))
}
