// Package mcptools exposes the enrichment pipeline as MCP tools over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/cognition-hooks/internal/adapters/hook"
	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

type Enhancer interface {
	Enhance(ctx context.Context, text string) application.Outcome
}

type Classifier interface {
	Classify(text string) []domain.RoleSuggestion
}

type SessionStarter interface {
	Start(ctx context.Context) (application.SessionStart, error)
}

type KnowledgeBase interface {
	Add(ctx context.Context, id string, keywords []string, summary string) (domain.SharedKnowledge, error)
	List(ctx context.Context) ([]domain.SharedKnowledge, []domain.Skip, error)
}

type PatternRecorder interface {
	RecordPattern(ctx context.Context, role domain.RoleID, pattern string) (domain.RoleMemory, error)
}

// EnhanceTool handles enhance_prompt.
type EnhanceTool struct {
	enhancer Enhancer
}

func NewEnhanceTool(enhancer Enhancer) *EnhanceTool {
	return &EnhanceTool{enhancer: enhancer}
}

func (t *EnhanceTool) Definition() mcp.Tool {
	return mcp.NewTool("enhance_prompt",
		mcp.WithDescription(
			"Suggest specialist roles and relevant shared knowledge for a prompt. "+
				"Returns an empty result when no session is active.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The user prompt to enrich"),
		),
	)
}

func (t *EnhanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("'prompt' is required"), nil
	}

	outcome := t.enhancer.Enhance(ctx, prompt)
	switch outcome.Kind {
	case application.OutcomeEnriched:
		data, err := hook.MarshalContext(*outcome.Payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode enrichment: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	case application.OutcomeInactive:
		return mcp.NewToolResultText("Framework inactive: start a session first."), nil
	case application.OutcomeUnavailable:
		return mcp.NewToolResultText("Enrichment unavailable for this prompt."), nil
	default:
		return mcp.NewToolResultText("No roles or shared knowledge matched."), nil
	}
}

// ClassifyTool handles classify_prompt. It does not need an active session.
type ClassifyTool struct {
	classifier Classifier
}

func NewClassifyTool(classifier Classifier) *ClassifyTool {
	return &ClassifyTool{classifier: classifier}
}

func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_prompt",
		mcp.WithDescription("List the specialist roles whose keyword rules match a prompt."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Text to classify"),
		),
	)
}

func (t *ClassifyTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("'prompt' is required"), nil
	}

	suggestions := t.classifier.Classify(prompt)
	if len(suggestions) == 0 {
		return mcp.NewToolResultText("No roles matched."), nil
	}

	var b strings.Builder
	for _, s := range suggestions {
		fmt.Fprintf(&b, "%s (%.2f): %s\n", s.RoleID, s.Confidence, s.Rationale)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// SessionStartTool handles start_session.
type SessionStartTool struct {
	sessions SessionStarter
}

func NewSessionStartTool(sessions SessionStarter) *SessionStartTool {
	return &SessionStartTool{sessions: sessions}
}

func (t *SessionStartTool) Definition() mcp.Tool {
	return mcp.NewTool("start_session",
		mcp.WithDescription("Initialize the framework store and mark a new session active."),
	)
}

func (t *SessionStartTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	started, err := t.sessions.Start(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Session %s started with %d roles available (%d seeded)",
		started.SessionID, len(started.RolesAvailable), len(started.SeededRoles),
	)), nil
}

// AddKnowledgeTool handles add_knowledge.
type AddKnowledgeTool struct {
	knowledge KnowledgeBase
}

func NewAddKnowledgeTool(knowledge KnowledgeBase) *AddKnowledgeTool {
	return &AddKnowledgeTool{knowledge: knowledge}
}

func (t *AddKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("add_knowledge",
		mcp.WithDescription("Store a shared knowledge entry that future prompts can retrieve by keyword."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier, used as the record key"),
		),
		mcp.WithString("keywords",
			mcp.Required(),
			mcp.Description("Comma-separated keywords"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Short summary returned on match"),
		),
	)
}

func (t *AddKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	entry, err := t.knowledge.Add(ctx, id, strings.Split(req.GetString("keywords", ""), ","), req.GetString("summary", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add knowledge: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Stored %q with keywords %s", entry.ID, strings.Join(entry.Keywords, ", "))), nil
}

// ListKnowledgeTool handles list_knowledge.
type ListKnowledgeTool struct {
	knowledge KnowledgeBase
}

func NewListKnowledgeTool(knowledge KnowledgeBase) *ListKnowledgeTool {
	return &ListKnowledgeTool{knowledge: knowledge}
}

func (t *ListKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("list_knowledge",
		mcp.WithDescription("List stored shared knowledge entries as JSON."),
	)
}

func (t *ListKnowledgeTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, skips, err := t.knowledge.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list knowledge: %v", err)), nil
	}

	type item struct {
		ID       string   `json:"id"`
		Keywords []string `json:"keywords"`
		Summary  string   `json:"summary"`
	}
	out := struct {
		Entries []item `json:"entries"`
		Skipped int    `json:"skipped"`
	}{Entries: make([]item, 0, len(entries)), Skipped: len(skips)}
	for _, e := range entries {
		out.Entries = append(out.Entries, item{ID: e.ID, Keywords: e.Keywords, Summary: e.Summary})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode entries: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// LearnPatternTool handles learn_pattern.
type LearnPatternTool struct {
	memories PatternRecorder
}

func NewLearnPatternTool(memories PatternRecorder) *LearnPatternTool {
	return &LearnPatternTool{memories: memories}
}

func (t *LearnPatternTool) Definition() mcp.Tool {
	return mcp.NewTool("learn_pattern",
		mcp.WithDescription("Append a learned pattern to a specialist role's memory."),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Role identifier, e.g. architect or problem-solver"),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("What the role learned"),
		),
	)
}

func (t *LearnPatternTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role, err := domain.ParseRoleID(req.GetString("role", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	memory, err := t.memories.RecordPattern(ctx, role, req.GetString("pattern", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record pattern: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s now has %d learned patterns", role, len(memory.LearnedPatterns))), nil
}
