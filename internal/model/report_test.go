package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_AddOutcome(t *testing.T) {
	report := Report{}

	report.AddOutcome(RuleOutcome{Status: RuleApplied, Edits: []Edit{{Path: "pom.xml"}, {Path: "A.java"}}})
	report.AddOutcome(RuleOutcome{Status: RuleApplied, Edits: []Edit{{Path: "A.java", Occurrences: 3}}})
	report.AddOutcome(RuleOutcome{Status: RuleSkipped, Edits: []Edit{{Path: "ignored"}}})

	assert.Equal(t, 3, report.TotalChanges, "one change per rule per file")
	assert.Equal(t, 2, report.FilesTouched, "distinct files")
}

func TestReport_AddCheck(t *testing.T) {
	report := Report{}

	report.AddCheck(CheckResult{ID: "clean", Passed: true})
	report.AddCheck(CheckResult{ID: "leftovers", Count: 4})
	report.AddCheck(CheckResult{ID: "missing", Expect: ExpectPresent})

	assert.Len(t, report.Checks, 3)
	assert.Equal(t, 2, report.FailedChecks)
	assert.Equal(t, 5, report.Findings)
}

func TestReport_Halted(t *testing.T) {
	report := Report{}
	assert.False(t, report.Halted())

	report.HaltedAt = 4
	assert.True(t, report.Halted())
}

func TestRuleOutcome_Counts(t *testing.T) {
	outcome := RuleOutcome{Edits: []Edit{{Occurrences: 2}, {Occurrences: 1}}}

	assert.Equal(t, 2, outcome.Files())
	assert.Equal(t, 3, outcome.Occurrences())
}
