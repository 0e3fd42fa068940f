package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kickabout/kickabout-cli/internal/events"
)

// Loader synchronizes the enriched event list
type Loader interface {
	Load(ctx context.Context) ([]events.EnrichedEvent, error)
}

// Joiner joins an event and reconciles the given list
type Joiner interface {
	Join(ctx context.Context, list []events.EnrichedEvent, eventID string) ([]events.EnrichedEvent, error)
}

// Model is the home screen: the enriched event list with join-in-place
type Model struct {
	loader   Loader
	joiner   Joiner
	username string

	// List state
	list    []events.EnrichedEvent
	cursor  int
	loading bool
	joining bool

	// generation stamps each load pass; results from a pass that is no
	// longer current are discarded instead of applied to stale state.
	generation int

	// UI state
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
	lastErr  string

	styles Styles
}

// NewModel creates the home screen model
func NewModel(loader Loader, joiner Joiner, username string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		loader:   loader,
		joiner:   joiner,
		username: username,
		loading:  true,
		spinner:  s,
		styles:   DefaultStyles(),
	}
}

// Messages

// eventsLoadedMsg carries the result of one load pass
type eventsLoadedMsg struct {
	generation int
	list       []events.EnrichedEvent
	err        error
}

// joinResultMsg carries the outcome of a join
type joinResultMsg struct {
	list []events.EnrichedEvent
	err  error
}

// Init starts the spinner and the first load (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.generation))
}

// loadCmd runs one synchronization pass stamped with a generation
func (m Model) loadCmd(generation int) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		list, err := loader.Load(ctx)
		return eventsLoadedMsg{generation: generation, list: list, err: err}
	}
}

// joinCmd performs the network join against the pre-patch list. The
// slice is only read here; the result message replaces the model's
// list wholesale.
func (m Model) joinCmd(list []events.EnrichedEvent, eventID string) tea.Cmd {
	joiner := m.joiner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := joiner.Join(ctx, list, eventID)
		return joinResultMsg{list: result, err: err}
	}
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.joining {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventsLoadedMsg:
		if msg.generation != m.generation {
			// A newer pass superseded this one; drop the result.
			return m, nil
		}
		m.loading = false
		m.list = msg.list
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = errorMessage(msg.err)
		}
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}
		return m, nil

	case joinResultMsg:
		m.joining = false
		m.list = msg.list
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = errorMessage(msg.err)
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}

	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.lastErr = ""
		m.generation++
		return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.generation))

	case "j", "enter":
		if m.loading || m.joining || m.cursor >= len(m.list) {
			return m, nil
		}
		selected := m.list[m.cursor]
		if selected.IsJoined {
			return m, nil
		}
		m.joining = true
		m.lastErr = ""
		// Show the join immediately; the command gets the pre-patch list
		// so the joiner reconciles (or rolls back) from authoritative
		// state. Only this goroutine ever writes m.list.
		prev := m.list
		m.list = markJoined(m.list, m.cursor, m.username)
		return m, tea.Batch(m.spinner.Tick, m.joinCmd(prev, selected.ID))
	}

	return m, nil
}

// markJoined returns a copy of the list with the row at index shown as
// joined. Display-only: the authoritative membership patch happens in
// the join coordinator.
func markJoined(list []events.EnrichedEvent, index int, username string) []events.EnrichedEvent {
	patched := append([]events.EnrichedEvent{}, list...)
	row := patched[index]
	row.JoinedPlayerUsernames = append(append([]string{}, row.JoinedPlayerUsernames...), username)
	row.IsJoined = true
	patched[index] = row
	return patched
}

// capitalize uppercases the first letter of a name for the welcome line
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// errorMessage extracts a single line for the status area
func errorMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
