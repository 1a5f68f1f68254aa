// Package hook speaks the prompt-submit hook protocol: a JSON event on stdin and a
// single context line on stdout.
package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/cognition-hooks/internal/domain"
)

const (
	ContextPrefix = "CodeCognition Context: "

	maxEventBytes = 4 << 20
)

type PromptEvent struct {
	UserPrompt string `json:"user_prompt"`
	Prompt     string `json:"prompt"`
	SessionID  string `json:"session_id,omitempty"`
	CWD        string `json:"cwd,omitempty"`
}

// Text returns the submitted prompt, preferring user_prompt.
func (e PromptEvent) Text() string {
	if e.UserPrompt != "" {
		return e.UserPrompt
	}
	return e.Prompt
}

// ReadPromptEvent decodes a hook event. Empty input yields an empty event.
func ReadPromptEvent(r io.Reader) (PromptEvent, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxEventBytes))
	if err != nil {
		return PromptEvent{}, fmt.Errorf("read hook event: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return PromptEvent{}, nil
	}

	var event PromptEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return PromptEvent{}, fmt.Errorf("decode hook event: %w", err)
	}

	return event, nil
}

type envelope struct {
	Context domain.EnrichmentPayload `json:"codecognition_context"`
}

// FormatContext renders the line injected into the assistant's context.
func FormatContext(payload domain.EnrichmentPayload) (string, error) {
	data, err := MarshalContext(payload)
	if err != nil {
		return "", err
	}
	return ContextPrefix + string(data), nil
}

// MarshalContext encodes payload under the codecognition_context key.
func MarshalContext(payload domain.EnrichmentPayload) ([]byte, error) {
	if payload.Suggestions == nil {
		payload.Suggestions = []domain.RoleSuggestion{}
	}
	if payload.RelevantMemory == nil {
		payload.RelevantMemory = []domain.RetrievedKnowledge{}
	}
	if payload.Recommendations == nil {
		payload.Recommendations = []string{}
	}

	data, err := json.MarshalIndent(envelope{Context: payload}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode enrichment payload: %w", err)
	}
	return data, nil
}

// ParseContext reverses FormatContext. It is the reader for downstream consumers
// of the hook's stdout, such as agent scripts that inspect the injected context.
func ParseContext(line string) (domain.EnrichmentPayload, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(line), strings.TrimSpace(ContextPrefix))
	if !ok {
		return domain.EnrichmentPayload{}, errors.New("missing context prefix")
	}

	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return domain.EnrichmentPayload{}, fmt.Errorf("decode enrichment payload: %w", err)
	}
	return env.Context, nil
}
