// Package tui provides the Terminal User Interface for pomidor. It runs the
// timer engine in-process and hosts the control server so that CLI commands
// work while it is open.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/server"
	"github.com/xolan/pomidor/internal/service"
	"github.com/xolan/pomidor/internal/storage"
	"github.com/xolan/pomidor/internal/tui/ui"
	"github.com/xolan/pomidor/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTimer Tab = iota
	TabHistory
)

var tabNames = []string{"Timer", "History"}

// Options wires the model to an engine and its stores.
type Options struct {
	Timer  views.Controller
	Events <-chan engine.Event
	// LoadHistory reads the grouped session log.
	LoadHistory views.HistoryLoader
	// SaveTheme persists a theme picked in the UI. May be nil.
	SaveTheme      func(name string) error
	Theme          string
	DefaultMinutes int
	// Notice is shown in the status bar until the next key press.
	Notice string
}

// Model is the root TUI model
type Model struct {
	events    <-chan engine.Event
	saveTheme func(name string) error

	activeTab Tab
	width     int
	height    int
	notice    string

	timerView   views.TimerModel
	historyView views.HistoryModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
	help          help.Model
}

// themeSavedMsg reports the result of persisting a theme change
type themeSavedMsg struct {
	err error
}

// New creates a new TUI model
func New(opts Options) Model {
	themeProvider := ui.NewThemeProvider(opts.Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	notice := opts.Notice
	if notice == "" && themeProvider.UnknownTheme() != "" {
		notice = fmt.Sprintf("Unknown theme %q, using %s", themeProvider.UnknownTheme(), themeProvider.CurrentDisplayName())
	}

	return Model{
		events:        opts.Events,
		saveTheme:     opts.SaveTheme,
		activeTab:     TabTimer,
		notice:        notice,
		timerView:     views.NewTimerModel(opts.Timer, opts.DefaultMinutes, styles, keys),
		historyView:   views.NewHistoryModel(opts.LoadHistory, styles, keys),
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		help:          help.New(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.historyView.Init(),
		waitForEvent(m.events),
	)
}

// waitForEvent delivers the next engine event. It returns nil once the
// engine has closed the channel.
func waitForEvent(events <-chan engine.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ui.EngineEventMsg{Event: ev}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		if m.timerView.IsInputMode() {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			m.timerView, cmd = m.timerView.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, nil
		case key.Matches(msg, m.keys.Timer):
			m.activeTab = TabTimer
			return m, nil
		case key.Matches(msg, m.keys.History):
			m.activeTab = TabHistory
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			return m.nextTheme()
		case key.Matches(msg, m.keys.Start):
			// starting always happens on the timer view
			m.activeTab = TabTimer
		}

		// Timer commands work from every view; scrolling goes to history.
		if m.activeTab == TabHistory && key.Matches(msg, m.keys.Up, m.keys.Down) {
			m.historyView, cmd = m.historyView.Update(msg)
			return m, cmd
		}
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		contentHeight := m.height - 6 // tabs, status bar and padding
		m.timerView.SetSize(m.width, contentHeight)
		m.historyView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.EngineEventMsg:
		var historyCmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		m.historyView, historyCmd = m.historyView.Update(msg)
		return m, tea.Batch(cmd, historyCmd, waitForEvent(m.events))

	case ui.HistoryChangedMsg:
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case themeSavedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Could not save theme: %v", msg.err)
		}
		return m, nil
	}

	var historyCmd tea.Cmd
	m.timerView, cmd = m.timerView.Update(msg)
	m.historyView, historyCmd = m.historyView.Update(msg)
	return m, tea.Batch(cmd, historyCmd)
}

func (m Model) nextTheme() (tea.Model, tea.Cmd) {
	name := m.themeProvider.NextTheme()
	m.styles = m.themeProvider.Styles()
	m.notice = "Theme: " + m.themeProvider.CurrentDisplayName()

	themeMsg := ui.ThemeChangedMsg{ThemeName: name, Styles: m.styles}
	m.timerView, _ = m.timerView.Update(themeMsg)
	m.historyView, _ = m.historyView.Update(themeMsg)

	return m, m.saveThemeConfig(name)
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(name string) tea.Cmd {
	if m.saveTheme == nil {
		return nil
	}
	save := m.saveTheme
	return func() tea.Msg {
		return themeSavedMsg{err: save(name)}
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		b.WriteString(m.timerView.View())
	case TabHistory:
		b.WriteString(m.historyView.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	if m.timerView.IsInputMode() {
		b.WriteString(m.help.View(m.keys.Input()))
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar shows the notice if there is one, otherwise the one-line
// timer status.
func (m Model) renderStatusBar() string {
	content := m.notice
	if content == "" {
		st := m.timerView.Status()
		if st.DisplayEnabled {
			content = cli.FormatStatusLine(st)
		}
	}

	padding := m.width - lipgloss.Width(content) - 6
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return m.styles.StatusBar.Render(content)
}

// Run opens the engine, serves the control API and runs the TUI until the
// user quits. It logs to the log file because the terminal belongs to the UI.
func Run(services *service.Services) error {
	cfg := services.Config.Get()

	logFile, err := service.OpenLogFile(services.Paths.Log)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := service.NewLogger(logFile, cfg, false)
	services = services.WithLogger(logger)

	ln, err := server.Bind(cfg.ListenAddr)
	if err != nil {
		return err
	}

	rt, err := services.Timer.Open(nil)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(rt.Engine, logger)
	srv.SetListener(ln)
	go func() {
		if err := srv.Serve(ctx); err != nil {
			logger.Error("control server stopped", "error", err)
		}
	}()

	opts := Options{
		Timer:  rt.Engine,
		Events: rt.Engine.Subscribe(64),
		LoadHistory: func() ([]storage.DayGroup, error) {
			return services.History.Grouped(0)
		},
		SaveTheme:      services.Config.SetTheme,
		Theme:          cfg.Theme,
		DefaultMinutes: cfg.DefaultMinutes,
	}
	if rt.RecoverErr != nil {
		opts.Notice = fmt.Sprintf("Could not restore the previous timer: %v", rt.RecoverErr)
	}

	p := tea.NewProgram(New(opts), tea.WithAltScreen())

	watcher, err := services.History.Watch(func() { p.Send(ui.HistoryChangedMsg{}) })
	if err != nil {
		logger.Warn("history watch disabled", "error", err)
	} else {
		defer func() { _ = watcher.Close() }()
	}

	_, err = p.Run()
	return err
}
