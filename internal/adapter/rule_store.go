package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
	"bootmigrate.dev/pkg/bootmigrate/internal/rules"
)

// RuleStore loads migration rule sets.
type RuleStore interface {
	// LoadRuleSet decodes the rule set at path, or the embedded default when
	// path is empty.
	LoadRuleSet(ctx context.Context, path m.Path) (m.RuleSet, error)

	// DefaultRuleSet returns the embedded rule set document verbatim.
	DefaultRuleSet() []byte
}

// YAMLRuleStore reads rule sets from yaml documents.
type YAMLRuleStore struct{}

// NewYAMLRuleStore constructs a YAMLRuleStore.
func NewYAMLRuleStore() *YAMLRuleStore {
	return &YAMLRuleStore{}
}

// LoadRuleSet decodes a yaml rule set. Unknown fields are rejected.
func (s *YAMLRuleStore) LoadRuleSet(ctx context.Context, path m.Path) (m.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return m.RuleSet{}, err
	}

	data := rules.Default
	source := rules.DefaultName

	if path != "" {
		content, err := os.ReadFile(string(path))
		if err != nil {
			return m.RuleSet{}, fmt.Errorf("reading rule set: %w", err)
		}

		data = content
		source = string(path)
	}

	ruleSet, err := DecodeRuleSet(bytes.NewReader(data))
	if err != nil {
		return m.RuleSet{}, fmt.Errorf("parsing rule set %s: %w", source, err)
	}

	return ruleSet, nil
}

// DefaultRuleSet returns the embedded rule set document.
func (s *YAMLRuleStore) DefaultRuleSet() []byte {
	return rules.Default
}

// DecodeRuleSet decodes a single yaml rule set document.
func DecodeRuleSet(r io.Reader) (m.RuleSet, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var ruleSet m.RuleSet
	if err := decoder.Decode(&ruleSet); err != nil {
		if errors.Is(err, io.EOF) {
			return m.RuleSet{}, errors.New("empty document")
		}

		return m.RuleSet{}, err
	}

	return ruleSet, nil
}
