// Package model defines the data structures shared by the migration layers.
package model

import (
	"fmt"
	"strings"
)

// Path represents a file system path.
type Path string

// BuildTool identifies the build system of the target project. Rule sets
// carry per-tool rules; the tool is detected once at startup and passed
// explicitly afterwards.
type BuildTool string

const (
	// UnknownBuildTool is the zero value, used before detection.
	UnknownBuildTool BuildTool = ""
	// Maven projects carry a pom.xml at the root.
	Maven BuildTool = "maven"
	// Gradle projects carry build.gradle or build.gradle.kts at the root.
	Gradle BuildTool = "gradle"
)

func (b BuildTool) String() string {
	if b == UnknownBuildTool {
		return "unknown"
	}

	return string(b)
}

// ParseBuildTool converts a user supplied name (case-insensitive) to a BuildTool.
func ParseBuildTool(value string) (BuildTool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return UnknownBuildTool, nil
	case "maven", "mvn":
		return Maven, nil
	case "gradle":
		return Gradle, nil
	}

	return UnknownBuildTool, fmt.Errorf("unsupported build tool %q (want maven or gradle)", value)
}

// Mode selects whether rules mutate the tree.
type Mode int

const (
	// Apply rewrites matched files in place.
	Apply Mode = iota
	// DryRun computes would-change counts without writing.
	DryRun
	// ReportOnly computes the same counts as DryRun, phrased as findings.
	ReportOnly
)

func (m Mode) String() string {
	switch m {
	case Apply:
		return "apply"
	case DryRun:
		return "dry-run"
	case ReportOnly:
		return "report-only"
	}

	return "unknown"
}

// Mutates reports whether the mode writes to the working tree.
func (m Mode) Mutates() bool {
	return m == Apply
}
