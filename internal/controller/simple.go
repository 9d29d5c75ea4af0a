package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// maxGateOutputLines bounds the build output echoed after a failed gate.
const maxGateOutputLines = 40

type styles struct {
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
	phase lipgloss.Style
}

func newStyles(out io.Writer) styles {
	renderer := lipgloss.NewRenderer(out)

	return styles{
		ok:    renderer.NewStyle().Foreground(lipgloss.Color("2")),
		warn:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
		fail:  renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted: renderer.NewStyle().Foreground(lipgloss.Color("8")),
		phase: renderer.NewStyle().Bold(true),
	}
}

// SimpleUI implements UI by writing lines to the command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	styles styles
}

// NewSimpleUI creates a new SimpleUI. Colors are only emitted when the
// command's output is a terminal.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, styles: newStyles(cmd.OutOrStdout())}
}

// DisplayPreflight prints the detected environment and any warnings.
func (s *SimpleUI) DisplayPreflight(ctx context.Context, result m.PreflightResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Build tool: %s\n", result.BuildTool)

	if result.JavaMajor > 0 {
		s.printf("Java: %d\n", result.JavaMajor)
	}

	if result.GitRepo {
		branch := result.Branch
		if branch == "" {
			branch = "(detached)"
		}

		suffix := ""
		if result.BranchCreated {
			suffix = " (created)"
		}

		s.printf("Git branch: %s%s\n", branch, suffix)
	}

	for _, warning := range result.Warnings {
		s.printf("%s %s\n", s.styles.warn.Render("warning:"), warning)
	}
}

// DisplayPhaseStart prints the phase header.
func (s *SimpleUI) DisplayPhaseStart(ctx context.Context, mode m.Mode, number int, name string) {
	if err := ctx.Err(); err != nil {
		return
	}

	header := fmt.Sprintf("Phase %d: %s", number, name)
	if !mode.Mutates() {
		header += fmt.Sprintf(" [%s]", mode)
	}

	s.printf("\n%s\n", s.styles.phase.Render(header))
}

// DisplayRuleOutcome prints one line per rule invocation.
func (s *SimpleUI) DisplayRuleOutcome(ctx context.Context, _ m.Mode, outcome m.RuleOutcome) {
	if err := ctx.Err(); err != nil {
		return
	}

	var marker string

	switch outcome.Status {
	case m.RuleApplied:
		marker = s.styles.ok.Render("✓ applied")
	case m.RuleWouldChange:
		marker = s.styles.warn.Render("~ would change")
	case m.RuleFound:
		marker = s.styles.warn.Render("! found")
	case m.RuleSkipped:
		s.printf("  %s %s\n", s.styles.muted.Render("- skipped"), outcome.Description)
		return
	}

	s.printf("  %s %s (%s)\n", marker, outcome.Description, pluralize(outcome.Files(), "file"))
}

// DisplayDiff prints a unified diff of one edit.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, edit m.Edit) {
	if err := ctx.Err(); err != nil {
		return
	}

	diff, err := UnifiedDiff(path, edit)
	if err != nil || diff == "" {
		return
	}

	s.printf("%s", diff)
}

// UnifiedDiff renders an edit as a unified diff with three lines of context.
func UnifiedDiff(path m.Path, edit m.Edit) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(edit.Before)),
		B:        difflib.SplitLines(string(edit.After)),
		FromFile: "a/" + string(path),
		ToFile:   "b/" + string(path),
		Context:  3,
	})
}

// DisplayGateOutcome prints the gate result. Failed gates echo the tail of
// the build output.
func (s *SimpleUI) DisplayGateOutcome(ctx context.Context, phase int, outcome m.GateOutcome) {
	if err := ctx.Err(); err != nil {
		return
	}

	if outcome.Passed {
		s.printf("  %s %s gate (%s)\n", s.styles.ok.Render("✓ passed"), outcome.Kind, outcome.Duration.Round(time.Millisecond))
		return
	}

	s.printf("  %s phase %d %s gate\n", s.styles.fail.Render("✗ failed"), phase, outcome.Kind)

	if tail := tailLines(outcome.Output, maxGateOutputLines); tail != "" {
		s.printf("%s\n", tail)
	}
}

// DisplayCheckResult prints a validator check and the locations of its hits.
func (s *SimpleUI) DisplayCheckResult(ctx context.Context, result m.CheckResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	if result.Passed {
		s.printf("  %s %s\n", s.styles.ok.Render("✓ pass"), result.Description)
		return
	}

	if result.Expect == m.ExpectPresent {
		s.printf("  %s %s (not found)\n", s.styles.fail.Render("✗ fail"), result.Description)
		return
	}

	s.printf("  %s %s (%s)\n", s.styles.fail.Render("✗ fail"), result.Description, pluralize(result.Count, "occurrence"))

	for _, loc := range result.Locations {
		s.printf("      %s:%d: %s\n", loc.Path, loc.Line, loc.Text)
	}
}

// DisplayHalt prints the resume instruction after a gate failure.
func (s *SimpleUI) DisplayHalt(ctx context.Context, phase int, lastCompleted int, resume string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s at phase %d (last completed phase: %d)\n", s.styles.fail.Render("Halted"), phase, lastCompleted)
	s.printf("Fix the build, then resume with: bootmigrate migrate --phase %s\n", resume)
}

// DisplaySummary prints the per-phase table and the report counters.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	if len(report.Phases) > 0 {
		s.printf("\n%s", renderSummaryTable(report))
	}

	for _, warning := range report.Warnings {
		s.printf("%s %s\n", s.styles.warn.Render("warning:"), warning)
	}

	if len(report.Checks) > 0 {
		s.printf("Checks: %d/%d passed, %s\n",
			len(report.Checks)-report.FailedChecks, len(report.Checks), pluralize(report.Findings, "finding"))
	}
}

func renderSummaryTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Phase", "Name", "Rules", "Files", "Gate"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, phase := range report.Phases {
		matched, files := 0, 0

		for _, outcome := range phase.Outcomes {
			if outcome.Status == m.RuleSkipped {
				continue
			}

			matched++
			files += outcome.Files()
		}

		gate := "-"
		if phase.Gate != nil {
			gate = fmt.Sprintf("%s: failed", phase.Gate.Kind)
			if phase.Gate.Passed {
				gate = fmt.Sprintf("%s: passed", phase.Gate.Kind)
			}
		}

		table.Append([]string{
			fmt.Sprintf("%d", phase.Number),
			phase.Name,
			fmt.Sprintf("%d/%d", matched, len(phase.Outcomes)),
			fmt.Sprintf("%d", files),
			gate,
		})
	}

	table.SetFooter([]string{
		report.Mode.String(),
		fmt.Sprintf("%s touched", pluralize(report.FilesTouched, "file")),
		"",
		fmt.Sprintf("%d", report.TotalChanges),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayRules prints the phases and rules of a rule set.
func (s *SimpleUI) DisplayRules(ctx context.Context, ruleSet m.RuleSet) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s (%s -> %s, Java %d)\n", ruleSet.Name, ruleSet.From, ruleSet.To, ruleSet.TargetJava)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Phase", "Rule", "Tool", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	rules := 0

	for _, phase := range ruleSet.Phases {
		for _, rule := range phase.Rules {
			tool := "any"
			if rule.BuildTool != m.UnknownBuildTool {
				tool = rule.BuildTool.String()
			}

			table.Append([]string{fmt.Sprintf("%d", phase.Number), rule.ID, tool, rule.Description})

			rules++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d", len(ruleSet.Phases)),
		fmt.Sprintf("%d", rules),
		"",
		pluralize(len(ruleSet.Checks), "check"),
	})

	table.Render()

	s.printf("%s", tableBuffer.String())
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}

func tailLines(output string, limit int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
