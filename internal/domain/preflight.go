package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// PreflightArgs configures the environment checks that run before phase 1.
type PreflightArgs struct {
	Root         m.Path
	Mode         m.Mode
	BuildTool    m.BuildTool
	TargetJava   int
	Branch       string
	CreateBranch bool
	Interactive  bool
}

// Preflight inspects the environment. Only a missing build tool and an
// operator refusing to continue are fatal; everything else is a warning.
type Preflight interface {
	CheckGitRepo(ctx context.Context, root m.Path) bool
	CheckJavaVersion(ctx context.Context) (int, error)
	DetectBuildTool(ctx context.Context, root m.Path, override m.BuildTool) (m.BuildTool, error)
	CheckCleanWorkingTree(ctx context.Context, root m.Path, interactive bool) (bool, error)
	CreateOrSwitchBranch(ctx context.Context, root m.Path, name string) (bool, error)
	Run(ctx context.Context, args PreflightArgs) (m.PreflightResult, error)
}

type preflight struct {
	git    adapter.GitAdapter
	runner adapter.BuildRunnerAdapter
	fs     adapter.SourceFSAdapter
	prompt adapter.Prompter
}

// NewPreflight creates a Preflight.
func NewPreflight(
	git adapter.GitAdapter,
	runner adapter.BuildRunnerAdapter,
	fs adapter.SourceFSAdapter,
	prompt adapter.Prompter,
) Preflight {
	return &preflight{git: git, runner: runner, fs: fs, prompt: prompt}
}

func (p *preflight) CheckGitRepo(ctx context.Context, root m.Path) bool {
	return p.git.IsRepository(ctx, root)
}

func (p *preflight) CheckJavaVersion(ctx context.Context) (int, error) {
	output, err := p.runner.JavaVersion(ctx)
	if err != nil && output == "" {
		return 0, fmt.Errorf("java -version: %w", err)
	}

	major := ParseJavaMajor(output)
	if major == 0 {
		return 0, fmt.Errorf("unrecognized java -version output: %q", firstLine(output))
	}

	return major, nil
}

func (p *preflight) DetectBuildTool(ctx context.Context, root m.Path, override m.BuildTool) (m.BuildTool, error) {
	if override != m.UnknownBuildTool {
		return override, nil
	}

	if p.fs.Exists(ctx, p.fs.JoinPath(string(root), "pom.xml")) {
		return m.Maven, nil
	}

	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		if p.fs.Exists(ctx, p.fs.JoinPath(string(root), name)) {
			return m.Gradle, nil
		}
	}

	return m.UnknownBuildTool, ErrNoBuildTool
}

// CheckCleanWorkingTree returns whether the tree is clean. A dirty tree is
// only an error when interactive and the operator declines to continue.
func (p *preflight) CheckCleanWorkingTree(ctx context.Context, root m.Path, interactive bool) (bool, error) {
	clean, err := p.git.IsClean(ctx, root)
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}

	if clean || !interactive || p.prompt == nil {
		return clean, nil
	}

	proceed, err := p.prompt.Confirm(ctx, "Working tree has uncommitted changes. Continue anyway?")
	if err != nil {
		return false, err
	}

	if !proceed {
		return false, ErrAborted
	}

	return false, nil
}

func (p *preflight) CreateOrSwitchBranch(ctx context.Context, root m.Path, name string) (bool, error) {
	return p.git.CreateOrSwitchBranch(ctx, root, name)
}

func (p *preflight) Run(ctx context.Context, args PreflightArgs) (m.PreflightResult, error) {
	result := m.PreflightResult{}

	tool, err := p.DetectBuildTool(ctx, args.Root, args.BuildTool)
	if err != nil {
		slog.Error("Build tool detection failed", "root", args.Root, "error", err)
		return result, err
	}

	result.BuildTool = tool

	major, err := p.CheckJavaVersion(ctx)
	switch {
	case err != nil:
		slog.Warn("Java version check failed", "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not determine Java version: %v", err))
	case args.TargetJava > 0 && major < args.TargetJava:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Java %d is older than the target Java %d; gates may fail", major, args.TargetJava))
	}

	result.JavaMajor = major

	result.GitRepo = p.CheckGitRepo(ctx, args.Root)
	if !result.GitRepo {
		result.Warnings = append(result.Warnings, "not a git repository; changes cannot be reviewed or reverted with git")
		return result, nil
	}

	if err := p.checkTree(ctx, args, &result); err != nil {
		return result, err
	}

	if args.Mode.Mutates() && args.CreateBranch && args.Branch != "" {
		created, err := p.CreateOrSwitchBranch(ctx, args.Root, args.Branch)
		if err != nil {
			slog.Error("Branch checkout failed", "branch", args.Branch, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not switch to branch %s: %v", args.Branch, err))
		}

		result.BranchCreated = created
	}

	branch, err := p.git.CurrentBranch(ctx, args.Root)
	if err != nil {
		slog.Warn("Cannot resolve current branch", "error", err)
	}

	result.Branch = branch

	return result, nil
}

func (p *preflight) checkTree(ctx context.Context, args PreflightArgs, result *m.PreflightResult) error {
	clean, err := p.CheckCleanWorkingTree(ctx, args.Root, args.Interactive && args.Mode.Mutates())
	if errors.Is(err, ErrAborted) {
		return err
	}

	if err != nil {
		slog.Warn("Working tree status failed", "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not read git status: %v", err))

		return nil
	}

	result.CleanTree = clean
	if !clean {
		result.Warnings = append(result.Warnings, "working tree has uncommitted changes")
	}

	return nil
}

var (
	quotedJavaVersion = regexp.MustCompile(`version "([^"]+)"`)
	bareJavaVersion   = regexp.MustCompile(`(?i)\b(?:openjdk|java)\s+(\d+(?:\.\d+)*)`)
	leadingDigits     = regexp.MustCompile(`^\d+`)
)

// ParseJavaMajor extracts the major version from `java -version` output.
// Legacy "1.8.0_292" reports 8; modern "21.0.2" reports 21. Unrecognized
// output returns 0.
func ParseJavaMajor(output string) int {
	var version string

	if match := quotedJavaVersion.FindStringSubmatch(output); match != nil {
		version = match[1]
	} else if match := bareJavaVersion.FindStringSubmatch(output); match != nil {
		version = match[1]
	}

	parts := strings.Split(version, ".")
	if len(parts) > 1 && parts[0] == "1" {
		parts = parts[1:]
	}

	digits := leadingDigits.FindString(parts[0])
	if digits == "" {
		return 0
	}

	major, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}

	return major
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
