package domain

import (
	"strings"
	"time"
)

type RoleMemory struct {
	RoleID               RoleID
	InitializedAt        time.Time
	KnowledgeAreas       []string
	LearnedPatterns      []string
	SuccessfulApproaches []string
	CollaborationHistory []string
}

// NewRoleMemory returns the empty seed written the first time a role is provisioned.
func NewRoleMemory(role RoleID, now time.Time) RoleMemory {
	return RoleMemory{
		RoleID:               role,
		InitializedAt:        now,
		KnowledgeAreas:       []string{},
		LearnedPatterns:      []string{},
		SuccessfulApproaches: []string{},
		CollaborationHistory: []string{},
	}
}

type SharedKnowledge struct {
	ID       string
	Keywords []string
	Summary  string
}

// Matches reports whether any declared keyword occurs in text, ignoring case.
func (k SharedKnowledge) Matches(text string) bool {
	if len(k.Keywords) == 0 {
		return false
	}

	lowered := strings.ToLower(text)
	for _, keyword := range k.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	return false
}

func (k *SharedKnowledge) NormalizeKeywords() {
	if k == nil {
		return
	}

	keywords := make([]string, 0, len(k.Keywords))
	seen := make(map[string]struct{}, len(k.Keywords))
	for _, keyword := range k.Keywords {
		trimmed := strings.ToLower(strings.TrimSpace(keyword))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		keywords = append(keywords, trimmed)
	}

	k.Keywords = keywords
}
