package domain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// Rule is a single find/replace or insertion scoped to a file set. Matches
// computes the edits without touching disk; Apply computes and writes them.
// A file whose content would not change is never reported.
type Rule interface {
	ID() string
	Description() string
	Matches(ctx context.Context, tree Tree) ([]m.Edit, error)
	Apply(ctx context.Context, tree Tree) ([]m.Edit, error)
}

// transformFunc returns the new content and the number of occurrences it rewrote.
type transformFunc func(content []byte) ([]byte, int)

// fileRule runs a content transform over every file matching its globs.
type fileRule struct {
	id          string
	description string
	files       []string
	transform   transformFunc
}

func (r *fileRule) ID() string {
	return r.id
}

func (r *fileRule) Description() string {
	return r.description
}

func (r *fileRule) Matches(ctx context.Context, tree Tree) ([]m.Edit, error) {
	files, err := tree.Files(ctx, r.files)
	if err != nil {
		return nil, err
	}

	var edits []m.Edit

	for _, path := range files {
		content, err := tree.FS.ReadFile(ctx, path)
		if err != nil {
			slog.Error("Failed to read file", "rule", r.id, "path", path, "error", err)
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		after, occurrences := r.transform(content)
		if occurrences == 0 || bytes.Equal(after, content) {
			continue
		}

		edits = append(edits, m.Edit{
			Path:        path,
			Occurrences: occurrences,
			Before:      content,
			After:       after,
		})
	}

	return edits, nil
}

func (r *fileRule) Apply(ctx context.Context, tree Tree) ([]m.Edit, error) {
	edits, err := r.Matches(ctx, tree)
	if err != nil {
		return nil, err
	}

	for i, edit := range edits {
		if err := tree.FS.WriteFile(ctx, edit.Path, edit.After); err != nil {
			slog.Error("Failed to write file", "rule", r.id, "path", edit.Path, "error", err)
			return edits[:i], fmt.Errorf("write %s: %w", edit.Path, err)
		}

		slog.Debug("Rewrote file", "rule", r.id, "path", edit.Path, "occurrences", edit.Occurrences)
	}

	return edits, nil
}

// NewReplaceRule builds a regex find/replace rule. Without multiline the
// pattern is applied to each line separately; with it the whole file is one
// buffer and `.` also matches newlines, so XML blocks can be rewritten.
func NewReplaceRule(id, description string, files []string, find, replace string, multiline bool) (Rule, error) {
	if find == "" {
		return nil, invalidRuleSet("rule %s: find is required", id)
	}

	expr := find
	if multiline {
		expr = "(?ms)" + find
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, invalidRuleSet("rule %s: find: %v", id, err)
	}

	transform := replaceLines(re, []byte(replace))
	if multiline {
		transform = replaceBuffer(re, []byte(replace))
	}

	return &fileRule{id: id, description: description, files: files, transform: transform}, nil
}

func replaceBuffer(re *regexp.Regexp, replacement []byte) transformFunc {
	return func(content []byte) ([]byte, int) {
		occurrences := len(re.FindAllIndex(content, -1))
		if occurrences == 0 {
			return content, 0
		}

		return re.ReplaceAll(content, replacement), occurrences
	}
}

func replaceLines(re *regexp.Regexp, replacement []byte) transformFunc {
	return func(content []byte) ([]byte, int) {
		lines := bytes.SplitAfter(content, []byte("\n"))
		out := make([]byte, 0, len(content))
		occurrences := 0

		for _, line := range lines {
			body, ending := splitLineEnding(line)

			hits := len(re.FindAllIndex(body, -1))
			if hits == 0 {
				out = append(out, line...)
				continue
			}

			occurrences += hits
			out = append(out, re.ReplaceAll(body, replacement)...)
			out = append(out, ending...)
		}

		return out, occurrences
	}
}

func splitLineEnding(line []byte) ([]byte, []byte) {
	switch {
	case bytes.HasSuffix(line, []byte("\r\n")):
		return line[:len(line)-2], line[len(line)-2:]
	case bytes.HasSuffix(line, []byte("\n")):
		return line[:len(line)-1], line[len(line)-1:]
	}

	return line, nil
}

// anchorInsert is a compiled insertion point.
type anchorInsert struct {
	anchor   *regexp.Regexp
	position m.Position
	content  []byte
}

func (a anchorInsert) insert(content []byte) ([]byte, bool) {
	loc := a.anchor.FindIndex(content)
	if loc == nil {
		return content, false
	}

	at := loc[0]
	if a.position == m.After {
		at = loc[1]
	}

	out := make([]byte, 0, len(content)+len(a.content))
	out = append(out, content[:at]...)
	out = append(out, a.content...)
	out = append(out, content[at:]...)

	return out, true
}

// NewInsertRule builds a rule that inserts content next to anchor unless the
// unless guard already matches. When anchor is missing, createAnchor (if
// set) is inserted first to synthesize it; otherwise the file is skipped.
func NewInsertRule(id, description string, files []string, spec m.RuleSpec) (Rule, error) {
	if spec.Unless == "" {
		return nil, invalidRuleSet("rule %s: insert rules need an unless guard", id)
	}

	if spec.Content == "" {
		return nil, invalidRuleSet("rule %s: content is required", id)
	}

	unless, err := regexp.Compile(spec.Unless)
	if err != nil {
		return nil, invalidRuleSet("rule %s: unless: %v", id, err)
	}

	primary, err := compileAnchor(id, spec.Anchor, spec.Position, spec.Content)
	if err != nil {
		return nil, err
	}

	var fallback *anchorInsert

	if spec.CreateAnchor != nil {
		created, err := compileAnchor(id, spec.CreateAnchor.Anchor, spec.CreateAnchor.Position, spec.CreateAnchor.Content)
		if err != nil {
			return nil, err
		}

		fallback = &created
	}

	transform := func(content []byte) ([]byte, int) {
		if unless.Match(content) {
			return content, 0
		}

		if out, ok := primary.insert(content); ok {
			return out, 1
		}

		if fallback == nil {
			return content, 0
		}

		withAnchor, ok := fallback.insert(content)
		if !ok {
			return content, 0
		}

		out, ok := primary.insert(withAnchor)
		if !ok {
			return content, 0
		}

		return out, 1
	}

	return &fileRule{id: id, description: description, files: files, transform: transform}, nil
}

func compileAnchor(id, anchor string, position m.Position, content string) (anchorInsert, error) {
	if anchor == "" {
		return anchorInsert{}, invalidRuleSet("rule %s: anchor is required", id)
	}

	switch position {
	case "":
		position = m.Before
	case m.Before, m.After:
	default:
		return anchorInsert{}, invalidRuleSet("rule %s: unknown position %q", id, position)
	}

	re, err := regexp.Compile(anchor)
	if err != nil {
		return anchorInsert{}, invalidRuleSet("rule %s: anchor: %v", id, err)
	}

	return anchorInsert{anchor: re, position: position, content: []byte(content)}, nil
}

// CompileRule turns a declarative rule into a Rule.
func CompileRule(spec m.RuleSpec) (Rule, error) {
	if spec.ID == "" {
		return nil, invalidRuleSet("rule without id")
	}

	if len(spec.Files) == 0 {
		return nil, invalidRuleSet("rule %s: files is required", spec.ID)
	}

	for _, glob := range spec.Files {
		if !doublestar.ValidatePattern(glob) {
			return nil, invalidRuleSet("rule %s: bad glob %q", spec.ID, glob)
		}
	}

	if _, err := m.ParseBuildTool(string(spec.BuildTool)); err != nil {
		return nil, invalidRuleSet("rule %s: %v", spec.ID, err)
	}

	description := spec.Description
	if description == "" {
		description = spec.ID
	}

	switch spec.Kind {
	case "", m.RuleReplace:
		return NewReplaceRule(spec.ID, description, spec.Files, spec.Find, spec.Replace, spec.Multiline)
	case m.RuleInsert:
		return NewInsertRule(spec.ID, description, spec.Files, spec)
	}

	return nil, invalidRuleSet("rule %s: unknown kind %q", spec.ID, spec.Kind)
}
