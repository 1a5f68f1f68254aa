package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "cognition-hooks"

type Dependencies struct {
	Enhancer   Enhancer
	Classifier Classifier
	Sessions   SessionStarter
	Knowledge  KnowledgeBase
	Memories   PatternRecorder
}

// NewServer registers every tool whose dependency is set.
func NewServer(version string, deps Dependencies) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Call start_session once per coding session, then enhance_prompt with each user prompt "+
				"to receive role suggestions and matching shared knowledge.",
		),
	)

	if deps.Sessions != nil {
		tool := NewSessionStartTool(deps.Sessions)
		s.AddTool(tool.Definition(), tool.Handle)
	}
	if deps.Enhancer != nil {
		tool := NewEnhanceTool(deps.Enhancer)
		s.AddTool(tool.Definition(), tool.Handle)
	}
	if deps.Classifier != nil {
		tool := NewClassifyTool(deps.Classifier)
		s.AddTool(tool.Definition(), tool.Handle)
	}
	if deps.Knowledge != nil {
		add := NewAddKnowledgeTool(deps.Knowledge)
		s.AddTool(add.Definition(), add.Handle)
		list := NewListKnowledgeTool(deps.Knowledge)
		s.AddTool(list.Definition(), list.Handle)
	}
	if deps.Memories != nil {
		tool := NewLearnPatternTool(deps.Memories)
		s.AddTool(tool.Definition(), tool.Handle)
	}

	return s
}
