package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/journal-runstats/internal/services"
	"github.com/j-veylop/journal-runstats/internal/ui/components"
	"github.com/j-veylop/journal-runstats/internal/ui/styles"
)

const defaultWidth = 80

// KeyMap defines the keybindings for the progress view.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
	}
}

// Model shows a spinner and a file progress bar while the manager analyzes
// the log directory. It quits on its own once the analysis is done.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	state    *State
	services *services.Manager
	files    []string
	keymap   KeyMap

	spinner components.LoadingSpinner
	bar     components.ProgressBar

	width int

	eventChannel chan services.ServiceEvent
}

// NewModel creates the progress view for one run of mgr over files.
// Cancelling ctx, or pressing a quit key, aborts the analysis between files.
func NewModel(ctx context.Context, mgr *services.Manager, files []string) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		state:    NewState(),
		services: mgr,
		files:    files,
		keymap:   DefaultKeyMap(),
		spinner:  components.NewSpinner("Reading journals..."),
		bar:      components.NewProgressBar(),
		width:    defaultWidth,
	}
}

// GetState returns the run state.
func (m *Model) GetState() *State {
	return m.state
}

// Init starts the spinner, the event subscription and the analysis.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick()}
	if m.services != nil {
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			runAnalysisCmd(m.ctx, m.services, m.files),
		)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) {
			m.state.Interrupt()
			m.cancel()
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state.IsDone() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		return m, waitForServiceEventCmd(m.eventChannel)

	case ServiceEventMsg:
		m.handleServiceEvent(msg.Event)
		if m.eventChannel != nil && !m.state.IsDone() {
			return m, waitForServiceEventCmd(m.eventChannel)
		}

	case AnalysisDoneMsg:
		m.state.Finish(msg.Report, msg.Err)
		if m.services != nil && m.eventChannel != nil {
			m.services.Unsubscribe(m.eventChannel)
			m.eventChannel = nil
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) {
	switch e := event.(type) {
	case services.ProgressEvent:
		m.state.SetProgress(e.Progress)
	case services.ErrorEvent:
		m.state.SetLastError(fmt.Errorf("[%s] %w", e.Service, e.Error))
	}
}

// View renders the progress view. It is empty once the run is over so the
// caller's summary replaces it.
func (m *Model) View() string {
	if m.state.IsDone() || m.state.Interrupted() {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString("\n")

	p := m.state.Progress()
	if p.Total > 0 {
		b.WriteString(m.bar.View(p, m.width))
		b.WriteString("\n")
		if p.ParseErrors > 0 {
			b.WriteString(styles.WarningTextStyle.Render(fmt.Sprintf("%d lines could not be parsed", p.ParseErrors)))
			b.WriteString("\n")
		}
	}

	if err := m.state.LastError(); err != nil {
		b.WriteString(styles.ErrorTextStyle.Render(err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("%s %s", m.keymap.Quit.Help().Key, m.keymap.Quit.Help().Desc)))
	return b.String()
}
