package domain

import (
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// MaxPhase is the highest phase number a rule set may declare.
const MaxPhase = 7

// Phase is a compiled PhaseSpec.
type Phase struct {
	Number   int
	Name     string
	Gate     m.GateKind
	Validate bool
	rules    []scopedRule
}

type scopedRule struct {
	Rule
	tool m.BuildTool
}

// RulesFor returns the phase's rules that apply to tool, in declaration order.
func (p Phase) RulesFor(tool m.BuildTool) []Rule {
	rules := make([]Rule, 0, len(p.rules))

	for _, rule := range p.rules {
		if m.AppliesTo(rule.tool, tool) {
			rules = append(rules, rule.Rule)
		}
	}

	return rules
}

// Check is a compiled validator CheckSpec.
type Check struct {
	ID          string
	Description string
	Expect      m.Expectation
	Files       []string
	Tool        m.BuildTool
	pattern     *regexp.Regexp
}

// NewCheck compiles a validator check.
func NewCheck(spec m.CheckSpec) (Check, error) {
	if spec.ID == "" {
		return Check{}, invalidRuleSet("check without id")
	}

	if spec.Pattern == "" || len(spec.Files) == 0 {
		return Check{}, invalidRuleSet("check %s: pattern and files are required", spec.ID)
	}

	for _, glob := range spec.Files {
		if !doublestar.ValidatePattern(glob) {
			return Check{}, invalidRuleSet("check %s: bad glob %q", spec.ID, glob)
		}
	}

	pattern, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return Check{}, invalidRuleSet("check %s: pattern: %v", spec.ID, err)
	}

	expect := spec.Expect
	switch expect {
	case "":
		expect = m.ExpectAbsent
	case m.ExpectAbsent, m.ExpectPresent:
	default:
		return Check{}, invalidRuleSet("check %s: unknown expect %q", spec.ID, expect)
	}

	tool, err := m.ParseBuildTool(string(spec.BuildTool))
	if err != nil {
		return Check{}, invalidRuleSet("check %s: %v", spec.ID, err)
	}

	description := spec.Description
	if description == "" {
		description = spec.ID
	}

	return Check{
		ID:          spec.ID,
		Description: description,
		Expect:      expect,
		Files:       spec.Files,
		Tool:        tool,
		pattern:     pattern,
	}, nil
}

// Plan is a validated, compiled rule set.
type Plan struct {
	RuleSet m.RuleSet
	Phases  []Phase
	Checks  []Check
}

// ChecksFor returns the checks that apply to tool.
func (p *Plan) ChecksFor(tool m.BuildTool) []Check {
	checks := make([]Check, 0, len(p.Checks))

	for _, check := range p.Checks {
		if m.AppliesTo(check.Tool, tool) {
			checks = append(checks, check)
		}
	}

	return checks
}

// CompilePlan validates a rule set and compiles its rules and checks. Phases
// are ordered by number; numbers must be unique and within 1..MaxPhase.
func CompilePlan(ruleSet m.RuleSet) (*Plan, error) {
	if len(ruleSet.Phases) == 0 {
		return nil, invalidRuleSet("no phases")
	}

	plan := &Plan{RuleSet: ruleSet}
	seenPhases := map[int]struct{}{}
	seenRules := map[string]struct{}{}

	for _, spec := range ruleSet.Phases {
		if spec.Number < 1 || spec.Number > MaxPhase {
			return nil, invalidRuleSet("phase %d out of range 1-%d", spec.Number, MaxPhase)
		}

		if _, dup := seenPhases[spec.Number]; dup {
			return nil, invalidRuleSet("duplicate phase %d", spec.Number)
		}

		seenPhases[spec.Number] = struct{}{}

		gate := spec.Gate
		switch gate {
		case "":
			gate = m.GateNone
		case m.GateNone, m.GateCompile, m.GateTest:
		default:
			return nil, invalidRuleSet("phase %d: unknown gate %q", spec.Number, gate)
		}

		phase := Phase{Number: spec.Number, Name: spec.Name, Gate: gate, Validate: spec.Validate}

		for _, ruleSpec := range spec.Rules {
			if _, dup := seenRules[ruleSpec.ID]; dup && ruleSpec.ID != "" {
				return nil, invalidRuleSet("duplicate rule id %s", ruleSpec.ID)
			}

			seenRules[ruleSpec.ID] = struct{}{}

			rule, err := CompileRule(ruleSpec)
			if err != nil {
				return nil, err
			}

			tool, _ := m.ParseBuildTool(string(ruleSpec.BuildTool))
			phase.rules = append(phase.rules, scopedRule{Rule: rule, tool: tool})
		}

		plan.Phases = append(plan.Phases, phase)
	}

	sort.Slice(plan.Phases, func(i, j int) bool { return plan.Phases[i].Number < plan.Phases[j].Number })

	for _, spec := range ruleSet.Checks {
		check, err := NewCheck(spec)
		if err != nil {
			return nil, err
		}

		plan.Checks = append(plan.Checks, check)
	}

	return plan, nil
}
