package domain

import (
	"fmt"
	"regexp"
	"strings"
)

type Matcher interface {
	Match(text string) bool
}

type RoleRule struct {
	Pattern    Matcher
	RoleID     RoleID
	Rationale  string
	Confidence float64
}

func (r RoleRule) Validate() error {
	if r.Pattern == nil {
		return fmt.Errorf("rule for %q has no pattern", r.RoleID)
	}
	if !r.RoleID.Valid() {
		return &UnknownRoleError{Role: string(r.RoleID)}
	}
	if r.Confidence <= 0 || r.Confidence > 1 {
		return fmt.Errorf("rule for %q: confidence %v outside (0,1]", r.RoleID, r.Confidence)
	}

	return nil
}

// RegexMatcher matches anywhere in the text, always case-insensitively.
type RegexMatcher struct {
	source string
	re     *regexp.Regexp
}

func NewRegexMatcher(expr string) (*RegexMatcher, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("pattern is empty")
	}

	compiled := trimmed
	if !strings.HasPrefix(compiled, "(?i)") {
		compiled = "(?i)" + compiled
	}

	re, err := regexp.Compile(compiled)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}

	return &RegexMatcher{source: trimmed, re: re}, nil
}

func (m *RegexMatcher) Match(text string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(text)
}

func (m *RegexMatcher) String() string {
	if m == nil {
		return ""
	}
	return m.source
}
