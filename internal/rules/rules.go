// Package rules loads the keyword table that maps prompts to specialist roles.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/cognition-hooks/internal/domain"
	"gopkg.in/yaml.v3"
)

const currentTableVersion = 1

//go:embed default_rules.yaml
var defaultTable []byte

type table struct {
	Version int         `yaml:"version"`
	Rules   []tableRule `yaml:"rules"`
}

type tableRule struct {
	Role       string  `yaml:"role"`
	Pattern    string  `yaml:"pattern"`
	Rationale  string  `yaml:"rationale"`
	Confidence float64 `yaml:"confidence"`
}

// Default returns the built-in rule table.
func Default() []domain.RoleRule {
	parsed, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("built-in rule table is invalid: %v", err))
	}
	return parsed
}

// Load reads a rule table from path, falling back to the built-in table when path is empty.
func Load(path string) ([]domain.RoleRule, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse rule table %s: %w", path, err)
	}

	return parsed, nil
}

// Parse decodes and compiles a YAML rule table. Rule order is preserved.
func Parse(data []byte) ([]domain.RoleRule, error) {
	var doc table
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rule table: %w", err)
	}

	if doc.Version == 0 {
		doc.Version = currentTableVersion
	}
	if doc.Version > currentTableVersion {
		return nil, fmt.Errorf("unsupported rule table version %d (current %d)", doc.Version, currentTableVersion)
	}
	if len(doc.Rules) == 0 {
		return nil, errors.New("rule table has no rules")
	}

	out := make([]domain.RoleRule, 0, len(doc.Rules))
	for i, raw := range doc.Rules {
		role, err := domain.ParseRoleID(raw.Role)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		matcher, err := domain.NewRegexMatcher(raw.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, role, err)
		}

		rule := domain.RoleRule{
			Pattern:    matcher,
			RoleID:     role,
			Rationale:  strings.TrimSpace(raw.Rationale),
			Confidence: raw.Confidence,
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		out = append(out, rule)
	}

	return out, nil
}
