package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// DefaultGateTimeout bounds a single compile or test subprocess.
const DefaultGateTimeout = 30 * time.Minute

// BuildRunnerAdapter abstracts the external build tool and JDK.
type BuildRunnerAdapter interface {
	// Compile runs the build tool's compile goals in workDir and returns the
	// combined stdout/stderr output. A nonzero exit is returned as an error.
	Compile(ctx context.Context, workDir m.Path, tool m.BuildTool) (output string, err error)

	// Test runs the build tool's test goals in workDir.
	Test(ctx context.Context, workDir m.Path, tool m.BuildTool) (output string, err error)

	// JavaVersion runs `java -version` and returns its raw output.
	JavaVersion(ctx context.Context) (output string, err error)
}

// LocalBuildRunnerAdapter runs mvn/gradle/java through os/exec.
type LocalBuildRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalBuildRunnerAdapter constructs a LocalBuildRunnerAdapter. A
// non-positive timeout falls back to DefaultGateTimeout.
func NewLocalBuildRunnerAdapter(timeout time.Duration) *LocalBuildRunnerAdapter {
	if timeout <= 0 {
		timeout = DefaultGateTimeout
	}

	return &LocalBuildRunnerAdapter{
		timeout: timeout,
	}
}

// Compile runs compile goals for the given tool.
func (a *LocalBuildRunnerAdapter) Compile(ctx context.Context, workDir m.Path, tool m.BuildTool) (string, error) {
	name, args, err := BuildCommand(workDir, tool, m.GateCompile)
	if err != nil {
		return "", err
	}

	return a.run(ctx, workDir, name, args...)
}

// Test runs test goals for the given tool.
func (a *LocalBuildRunnerAdapter) Test(ctx context.Context, workDir m.Path, tool m.BuildTool) (string, error) {
	name, args, err := BuildCommand(workDir, tool, m.GateTest)
	if err != nil {
		return "", err
	}

	return a.run(ctx, workDir, name, args...)
}

// JavaVersion returns the output of `java -version`, which the JDK prints on stderr.
func (a *LocalBuildRunnerAdapter) JavaVersion(ctx context.Context) (string, error) {
	return a.run(ctx, "", "java", "-version")
}

func (a *LocalBuildRunnerAdapter) run(ctx context.Context, workDir m.Path, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = string(workDir)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()

	return output, err
}

// BuildCommand resolves the executable and arguments for a gate. Project
// wrappers (mvnw, gradlew) are preferred over tools on PATH.
func BuildCommand(workDir m.Path, tool m.BuildTool, gate m.GateKind) (string, []string, error) {
	switch tool {
	case m.Maven:
		name := wrapperOr(workDir, "mvnw", "mvn")

		switch gate {
		case m.GateCompile:
			return name, []string{"-B", "-q", "test-compile"}, nil
		case m.GateTest:
			return name, []string{"-B", "-q", "test"}, nil
		case m.GateNone:
		}
	case m.Gradle:
		name := wrapperOr(workDir, "gradlew", "gradle")

		switch gate {
		case m.GateCompile:
			return name, []string{"--console=plain", "-q", "compileJava", "compileTestJava"}, nil
		case m.GateTest:
			return name, []string{"--console=plain", "-q", "test"}, nil
		case m.GateNone:
		}
	case m.UnknownBuildTool:
	}

	return "", nil, fmt.Errorf("no %s command for build tool %s", gate, tool)
}

func wrapperOr(workDir m.Path, wrapper, fallback string) string {
	path := filepath.Join(string(workDir), wrapper)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return fallback
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fallback
	}

	return abs
}
