package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kickabout/kickabout-cli/internal/events"
)

// Styles contains lipgloss styles for the home screen
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Cursor   lipgloss.Style
	Badge    lipgloss.Style
	Joined   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow
		Joined: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginTop(1),
	}
}

// View renders the home screen (required by Bubble Tea)
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Welcome %s!", capitalize(m.username))))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s Loading events...\n", m.spinner.View()))
	case len(m.list) == 0:
		b.WriteString(m.styles.Muted.Render("No upcoming events.") + "\n")
	default:
		b.WriteString(m.renderList())
	}

	if m.joining {
		b.WriteString(fmt.Sprintf("\n%s Joining...\n", m.spinner.View()))
	}

	if m.lastErr != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.lastErr) + "\n")
	}

	b.WriteString(m.styles.Help.Render("↑/↓ move · j join · r refresh · q quit"))

	return b.String()
}

// renderList renders the enriched event rows
func (m Model) renderList() string {
	var b strings.Builder

	for i, event := range m.list {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, m.renderEventLine(event)))

		players := m.styles.Muted.Render("    players: " + joinNames(event.JoinedPlayerUsernames))
		b.WriteString(players + "\n")
	}

	return b.String()
}

// renderEventLine renders one event's headline with badges
func (m Model) renderEventLine(event events.EnrichedEvent) string {
	line := fmt.Sprintf("%s · %s · %s",
		event.EventType,
		event.Date.Format("Mon Jan 2 15:04"),
		event.Address)

	var badges []string
	if event.IsJoined {
		badges = append(badges, m.styles.Joined.Render("[joined]"))
	}
	if event.IsOwner {
		badges = append(badges, m.styles.Badge.Render("[owner]"))
	}
	if event.IsInvited {
		badges = append(badges, m.styles.Badge.Render("[invited]"))
	}
	if event.Indoor {
		badges = append(badges, m.styles.Subtitle.Render("[indoor]"))
	}
	if event.Fees > 0 {
		badges = append(badges, m.styles.Subtitle.Render(fmt.Sprintf("[%.2f]", event.Fees)))
	}

	if len(badges) > 0 {
		line += " " + strings.Join(badges, " ")
	}

	return line
}

// joinNames renders resolved player names, marking unresolved blanks
func joinNames(names []string) string {
	shown := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			name = "(unknown)"
		}
		shown = append(shown, name)
	}
	if len(shown) == 0 {
		return "none yet"
	}
	return strings.Join(shown, ", ")
}
