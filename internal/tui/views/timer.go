package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/session"
	"github.com/xolan/pomidor/internal/tui/ui"
)

// Controller is the part of the engine the timer view drives.
type Controller interface {
	Start(minutes int, label string) error
	Stop() error
	Toggle() error
	ToggleDisplay() error
	Status() engine.Status
}

// TimerModel is the model for the timer view
type TimerModel struct {
	ctrl   Controller
	styles ui.Styles
	keys   ui.KeyMap

	width          int
	height         int
	status         engine.Status
	defaultMinutes int
	err            error

	// Input state for starting timer
	inputMode bool
	input     textinput.Model

	// Completion banner
	banner   string
	bannerID int
}

// NewTimerModel creates a new timer view model
func NewTimerModel(ctrl Controller, defaultMinutes int, styles ui.Styles, keys ui.KeyMap) TimerModel {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d [label]", defaultMinutes)
	ti.CharLimit = 200
	ti.Width = 40

	return TimerModel{
		ctrl:           ctrl,
		styles:         styles,
		keys:           keys,
		defaultMinutes: defaultMinutes,
		input:          ti,
		status:         ctrl.Status(),
	}
}

// commandDoneMsg is sent after an engine command returns
type commandDoneMsg struct {
	err error
}

// bannerExpiredMsg hides the completion banner it was scheduled for
type bannerExpiredMsg struct {
	id int
}

// Init implements tea.Model
func (m TimerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m TimerModel) Update(msg tea.Msg) (TimerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Start):
			m.inputMode = true
			m.err = nil
			m.input.SetValue("")
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Stop):
			if m.status.State != engine.StateIdle {
				return m, m.run(m.ctrl.Stop)
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.status.State != engine.StateIdle {
				return m, m.run(m.ctrl.Toggle)
			}
		case key.Matches(msg, m.keys.Display):
			return m, m.run(m.ctrl.ToggleDisplay)
		}
		return m, nil

	case commandDoneMsg:
		m.err = msg.err
		m.status = m.ctrl.Status()
		return m, nil

	case ui.EngineEventMsg:
		ev := msg.Event
		m.status = m.ctrl.Status()
		switch ev.Type {
		case engine.EventCompleted:
			if ev.Notification != nil {
				m.bannerID++
				m.banner = ev.Notification.Message
				id := m.bannerID
				return m, tea.Tick(ev.Notification.Duration, func(time.Time) tea.Msg {
					return bannerExpiredMsg{id: id}
				})
			}
		case engine.EventStorageError:
			m.err = ev.Err
		}
		return m, nil

	case bannerExpiredMsg:
		if msg.id == m.bannerID {
			m.banner = ""
		}
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleInputMode handles key events when in input mode
func (m TimerModel) handleInputMode(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		minutes, label, err := parseStartInput(m.input.Value(), m.defaultMinutes)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.inputMode = false
		m.err = nil
		m.input.Blur()
		return m, m.run(func() error { return m.ctrl.Start(minutes, label) })
	case key.Matches(msg, m.keys.Back):
		m.inputMode = false
		m.err = nil
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseStartInput reads "<minutes> [label...]". Empty input uses the
// default length and label.
func parseStartInput(input string, defaultMinutes int) (int, string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return defaultMinutes, "", nil
	}
	minutes, err := session.ParseMinutes(fields[0])
	if err != nil {
		return 0, "", &engine.UsageError{Arg: "minutes", Value: fields[0], Reason: "must be a positive whole number"}
	}
	return minutes, strings.Join(fields[1:], " "), nil
}

// View implements tea.Model
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Timer"))
	b.WriteString("\n\n")

	if m.banner != "" {
		b.WriteString(m.styles.Banner.Render(m.banner))
		b.WriteString("\n\n")
	}

	if m.inputMode {
		b.WriteString(m.styles.Label.Render("Start"))
		b.WriteString("\n")
		b.WriteString(m.styles.Input.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("minutes followed by an optional label"))
		m.writeError(&b)
		return b.String()
	}

	switch {
	case m.status.State == engine.StateIdle:
		b.WriteString(m.styles.TimerIdle.Render("No timer running"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Press 's' to start a timer"))
	case !m.status.DisplayEnabled:
		b.WriteString(m.styles.TimerIdle.Render("Countdown hidden"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Press 'd' to show it"))
	default:
		m.writeCountdown(&b)
	}

	m.writeError(&b)
	return b.String()
}

func (m TimerModel) writeCountdown(b *strings.Builder) {
	countdown := cli.FormatCountdown(m.status.RemainingSeconds)
	state := m.styles.Success.Render("● running")
	if m.status.State == engine.StatePaused {
		b.WriteString(m.styles.CountdownPaused.Render(countdown))
		state = m.styles.Warning.Render("‖ paused")
	} else {
		b.WriteString(m.styles.Countdown.Render(countdown))
	}
	b.WriteString("  ")
	b.WriteString(state)
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Label:"))
	b.WriteString(m.styles.TimerLabel.Render(m.status.Label))
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Length:"))
	b.WriteString(m.styles.TimerLabel.Render(cli.FormatDuration(m.status.InitialMinutes)))
	b.WriteString("\n")
}

func (m TimerModel) writeError(b *strings.Builder) {
	if m.err == nil {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
}

// SetSize sets the view dimensions
func (m *TimerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Status returns the last status the view has seen.
func (m TimerModel) Status() engine.Status {
	return m.status
}

// Banner returns the completion banner text, or "" when none is shown.
func (m TimerModel) Banner() string {
	return m.banner
}

// IsInputMode returns true when the view is capturing keyboard input
func (m TimerModel) IsInputMode() bool {
	return m.inputMode
}

func (m TimerModel) run(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{err: fn()}
	}
}
