package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/storage"
	"github.com/xolan/pomidor/internal/tui/ui"
)

// HistoryLoader reads the grouped session log.
type HistoryLoader func() ([]storage.DayGroup, error)

// HistoryModel is the model for the history view
type HistoryModel struct {
	load   HistoryLoader
	styles ui.Styles
	keys   ui.KeyMap

	width    int
	height   int
	groups   []storage.DayGroup
	loaded   bool
	err      error
	viewport viewport.Model
}

// NewHistoryModel creates a new history view model
func NewHistoryModel(load HistoryLoader, styles ui.Styles, keys ui.KeyMap) HistoryModel {
	return HistoryModel{
		load:     load,
		styles:   styles,
		keys:     keys,
		viewport: viewport.New(0, 0),
	}
}

// historyLoadedMsg is sent when the history has been read
type historyLoadedMsg struct {
	groups []storage.DayGroup
	err    error
}

// Init implements tea.Model
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory()
}

// Update implements tea.Model
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.groups = msg.groups
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case ui.HistoryChangedMsg:
		return m, m.loadHistory()

	case ui.EngineEventMsg:
		switch msg.Event.Type {
		case engine.EventCompleted, engine.EventInterrupted:
			return m, m.loadHistory()
		}
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.viewport.SetContent(m.content())
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Up, m.keys.Down) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model
func (m HistoryModel) View() string {
	var b strings.Builder

	title := "History"
	if n := len(m.groups); n > 0 {
		title = fmt.Sprintf("History (%d %s)", n, pluralize("day", n))
	}
	b.WriteString(m.styles.ViewTitle.Render(title))
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString("Loading...")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	case len(m.groups) == 0:
		b.WriteString(m.styles.Muted.Render("No sessions recorded yet"))
	default:
		b.WriteString(m.viewport.View())
	}
	return b.String()
}

// SetSize sets the view dimensions
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	// title and its margin
	m.viewport.Height = max(height-3, 1)
}

// Groups returns the loaded day groups.
func (m HistoryModel) Groups() []storage.DayGroup {
	return m.groups
}

func (m HistoryModel) content() string {
	return RenderDayGroups(m.groups, m.styles)
}

func (m HistoryModel) loadHistory() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.load()
		return historyLoadedMsg{groups: groups, err: err}
	}
}
