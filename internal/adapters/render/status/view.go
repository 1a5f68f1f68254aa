package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const confidenceBarWidth = 20

type RenderOptions struct {
	Now time.Time
	// Root is the store location shown in the header.
	Root string
}

// Render draws the framework overview shown by `cog status`.
func Render(overview application.Overview, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderOverview(overview, opts, s)
	})
}

// RenderRoles draws the role table shown by `cog roles`.
func RenderRoles(roles []application.RoleOverview) (string, error) {
	return run(func(s styles) string {
		return renderRoles(roles, s)
	})
}

// RenderSuggestions draws classifier output with a confidence bar per role.
func RenderSuggestions(suggestions []domain.RoleSuggestion) (string, error) {
	return run(func(s styles) string {
		return renderSuggestions(suggestions, s)
	})
}

func renderOverview(overview application.Overview, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("CodeCognition Framework Status")}
	if opts.Root != "" {
		lines = append(lines, s.header.Render("store: "+opts.Root))
	}

	if overview.Status == nil {
		lines = append(lines, s.inactive.Render("not initialized"), s.empty.Render("Run `cog session start` to provision the store."))
	} else {
		lines = append(lines, statusLine(*overview.Status, opts.Now, s))
		if overview.Status.SessionID != "" {
			lines = append(lines, s.detail.Render("session: "+string(overview.Status.SessionID)))
		}
		lines = append(lines,
			s.detail.Render("communication: "+enabledLabel(overview.Status.CommunicationEnabled)),
			s.detail.Render("memory system: "+enabledLabel(overview.Status.MemoryActive)),
		)
	}

	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.key.Render(fmt.Sprintf("memory: %d/%d role memory records", overview.MemoryCount(), len(domain.Roles()))),
		s.key.Render(fmt.Sprintf("communication logs: %d session records", overview.SessionCount)),
	)))

	if len(overview.Skips) > 0 {
		lines = append(lines, s.warning.Render(fmt.Sprintf("%d unreadable session records skipped", len(overview.Skips))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLine(status domain.FrameworkStatus, now time.Time, s styles) string {
	label := s.inactive.Render("inactive")
	if status.IsActive() {
		label = s.active.Render("active")
	}

	started := s.meta.Render(fmt.Sprintf("(started %s)", formatStarted(status.SessionStartedAt, now)))
	return lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render("framework: "), label, " ", started)
}

func renderRoles(roles []application.RoleOverview, s styles) string {
	lines := []string{
		s.title.Render("Specialist Roles"),
		s.header.Render(fmt.Sprintf("roles: %d", len(roles))),
	}

	for _, role := range roles {
		memory := s.empty.Render("no memory")
		if role.HasMemory {
			memory = s.active.Render("memory") + s.meta.Render(fmt.Sprintf(" (%s, %s)",
				plural(role.LearnedPatterns, "learned pattern"), plural(role.KnowledgeAreas, "knowledge area")))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, s.role.Render(string(role.Role)), " ", memory),
			s.detail.Render(role.Description),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSuggestions(suggestions []domain.RoleSuggestion, s styles) string {
	lines := []string{
		s.title.Render("Role Suggestions"),
		s.header.Render(fmt.Sprintf("matched: %d", len(suggestions))),
	}

	if len(suggestions) == 0 {
		lines = append(lines, s.empty.Render("No rule matched."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := 0
	for _, suggestion := range suggestions {
		if n := len(suggestion.RoleID); n > width {
			width = n
		}
	}

	for _, suggestion := range suggestions {
		percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(suggestion.Confidence, 0, 1))
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.role.Render(fmt.Sprintf("%-*s", width, suggestion.RoleID)),
			" ",
			renderConfidenceBar(suggestion.Confidence, confidenceBarWidth, s),
			" ",
			percentStyle.Render(fmt.Sprintf("%3.0f%%", clampUnit(suggestion.Confidence)*100)),
			" ",
			s.meta.Render(suggestion.Rationale),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderConfidenceBar(confidence float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampUnit(confidence)))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func formatStarted(startedAt, now time.Time) string {
	if startedAt.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return startedAt.Format(time.RFC3339)
	}
	if startedAt.After(now) {
		return "just now"
	}

	elapsed := now.Sub(startedAt)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		return plural(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
