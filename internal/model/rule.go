package model

// GateKind names the post-phase verification run after a phase's rules.
type GateKind string

const (
	// GateNone disables the gate for a phase.
	GateNone GateKind = "none"
	// GateCompile runs the build tool's compile goals.
	GateCompile GateKind = "compile"
	// GateTest runs the build tool's test goals.
	GateTest GateKind = "test"
)

// RuleKind selects how a rule edits a file.
type RuleKind string

const (
	// RuleReplace is a regex find/replace.
	RuleReplace RuleKind = "replace"
	// RuleInsert adds content next to an anchor unless a guard already matches.
	RuleInsert RuleKind = "insert"
)

// Position places inserted content relative to its anchor.
type Position string

const (
	// Before inserts immediately before the anchor match.
	Before Position = "before"
	// After inserts immediately after the anchor match.
	After Position = "after"
)

// Expectation is the pass predicate of a validator check.
type Expectation string

const (
	// ExpectAbsent passes when the pattern never occurs.
	ExpectAbsent Expectation = "absent"
	// ExpectPresent passes when the pattern occurs at least once.
	ExpectPresent Expectation = "present"
)

// AnchorSpec describes a minimal section to synthesize when an insert rule's
// anchor is missing, e.g. an empty <dependencies> block before </project>.
type AnchorSpec struct {
	Anchor   string   `yaml:"anchor"`
	Position Position `yaml:"position,omitempty"`
	Content  string   `yaml:"content"`
}

// RuleSpec is the declarative form of a single rule.
type RuleSpec struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Kind        RuleKind  `yaml:"kind,omitempty"`
	Files       []string  `yaml:"files"`
	BuildTool   BuildTool `yaml:"build_tool,omitempty"`

	// replace
	Find      string `yaml:"find,omitempty"`
	Replace   string `yaml:"replace,omitempty"`
	Multiline bool   `yaml:"multiline,omitempty"`

	// insert
	Anchor       string      `yaml:"anchor,omitempty"`
	Position     Position    `yaml:"position,omitempty"`
	Content      string      `yaml:"content,omitempty"`
	Unless       string      `yaml:"unless,omitempty"`
	CreateAnchor *AnchorSpec `yaml:"create_anchor,omitempty"`
}

// PhaseSpec groups rules that run together, followed by an optional gate.
// A Validate phase also runs the rule set's checks after its rules.
type PhaseSpec struct {
	Number   int        `yaml:"number"`
	Name     string     `yaml:"name"`
	Gate     GateKind   `yaml:"gate,omitempty"`
	Validate bool       `yaml:"validate,omitempty"`
	Rules    []RuleSpec `yaml:"rules"`
}

// CheckSpec is a read-only presence/absence scan run by the validator.
type CheckSpec struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Pattern     string      `yaml:"pattern"`
	Files       []string    `yaml:"files"`
	Expect      Expectation `yaml:"expect,omitempty"`
	BuildTool   BuildTool   `yaml:"build_tool,omitempty"`
}

// RuleSet is a complete migration: ordered phases plus validation checks.
type RuleSet struct {
	Name       string      `yaml:"name"`
	From       string      `yaml:"from"`
	To         string      `yaml:"to"`
	TargetJava int         `yaml:"target_java"`
	Branch     string      `yaml:"branch"`
	Phases     []PhaseSpec `yaml:"phases"`
	Checks     []CheckSpec `yaml:"checks"`
}

// Phase returns the phase with the given number.
func (rs RuleSet) Phase(number int) (PhaseSpec, bool) {
	for _, phase := range rs.Phases {
		if phase.Number == number {
			return phase, true
		}
	}

	return PhaseSpec{}, false
}

// AppliesTo reports whether a rule or check filtered by tool runs for the detected tool.
func AppliesTo(filter, detected BuildTool) bool {
	return filter == UnknownBuildTool || filter == detected
}
