package application

import (
	"strings"
	"sync/atomic"

	"github.com/bnema/cognition-hooks/internal/domain"
)

// Classifier tags text with every role whose rule matches. Rules never suppress
// each other and suggestions keep table order.
type Classifier struct {
	rules atomic.Pointer[[]domain.RoleRule]
}

func NewClassifier(rules []domain.RoleRule) *Classifier {
	c := &Classifier{}
	c.SetRules(rules)
	return c
}

// SetRules swaps the table for subsequent Classify calls.
func (c *Classifier) SetRules(rules []domain.RoleRule) {
	table := append([]domain.RoleRule(nil), rules...)
	c.rules.Store(&table)
}

// Rules returns a copy of the current table.
func (c *Classifier) Rules() []domain.RoleRule {
	table := c.rules.Load()
	if table == nil {
		return nil
	}
	return append([]domain.RoleRule(nil), (*table)...)
}

func (c *Classifier) Classify(text string) []domain.RoleSuggestion {
	suggestions := []domain.RoleSuggestion{}
	if strings.TrimSpace(text) == "" {
		return suggestions
	}

	table := c.rules.Load()
	if table == nil {
		return suggestions
	}

	for _, rule := range *table {
		if rule.Pattern == nil || !rule.Pattern.Match(text) {
			continue
		}
		suggestions = append(suggestions, domain.RoleSuggestion{
			RoleID:     rule.RoleID,
			Rationale:  rule.Rationale,
			Confidence: rule.Confidence,
		})
	}

	return suggestions
}
