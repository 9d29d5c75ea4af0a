package domain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// Validator runs read-only presence/absence checks. Every check runs; a
// failing check is a finding, never an error.
type Validator interface {
	Validate(ctx context.Context, tree Tree, checks []Check) ([]m.CheckResult, error)
}

type validator struct{}

// NewValidator creates a Validator.
func NewValidator() Validator {
	return &validator{}
}

func (v *validator) Validate(ctx context.Context, tree Tree, checks []Check) ([]m.CheckResult, error) {
	results := make([]m.CheckResult, 0, len(checks))

	for _, check := range checks {
		result, err := v.run(ctx, tree, check)
		if err != nil {
			return results, fmt.Errorf("check %s: %w", check.ID, err)
		}

		results = append(results, result)
	}

	return results, nil
}

func (v *validator) run(ctx context.Context, tree Tree, check Check) (m.CheckResult, error) {
	result := m.CheckResult{
		ID:          check.ID,
		Description: check.Description,
		Expect:      check.Expect,
	}

	files, err := tree.Files(ctx, check.Files)
	if err != nil {
		return result, err
	}

	for _, path := range files {
		content, err := tree.FS.ReadFile(ctx, path)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", path, err)
		}

		scanner := bufio.NewScanner(bytes.NewReader(content))
		scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)

		line := 0
		for scanner.Scan() {
			line++

			text := strings.TrimSuffix(scanner.Text(), "\r")

			hits := len(check.pattern.FindAllStringIndex(text, -1))
			if hits == 0 {
				continue
			}

			result.Count += hits
			result.Locations = append(result.Locations, m.Location{
				Path: tree.Rel(path),
				Line: line,
				Text: strings.TrimSpace(text),
			})
		}

		if err := scanner.Err(); err != nil {
			return result, fmt.Errorf("scan %s: %w", path, err)
		}
	}

	switch check.Expect {
	case m.ExpectPresent:
		result.Passed = result.Count > 0
	default:
		result.Passed = result.Count == 0
	}

	return result, nil
}
