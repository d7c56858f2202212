// Package tui is the interactive terminal frontend: a chat view over the
// document corpus, a documents view for ingestion, and a tickets view for
// the maintenance queue.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leasedesk/cli/config"
	"github.com/leasedesk/cli/internal/db"
	"github.com/leasedesk/cli/internal/documents"
	"github.com/leasedesk/cli/internal/openai"
	"github.com/leasedesk/cli/internal/rag"
)

// Services bundles the backends the views call into.
type Services struct {
	DB        *db.DB
	Processor *documents.Processor
	Answerer  *rag.Answerer
	Searcher  rag.Searcher
	LLM       *openai.Client
	Cfg       *config.Config
}

type view int

const (
	viewChat view = iota
	viewDocuments
	viewTickets
)

var viewNames = []string{"Chat", "Documents", "Tickets"}

// Model is the root Bubble Tea model. It owns the active view and the
// shared window size; each view keeps its own state.
type Model struct {
	services Services
	active   view
	chat     chatModel
	docs     documentsModel
	tickets  ticketsModel
	width    int
	height   int
	ready    bool
}

// New creates the root model with the chat view focused.
func New(services Services) Model {
	return Model{
		services: services,
		active:   viewChat,
		chat:     newChatModel(services),
		docs:     newDocumentsModel(services),
		tickets:  newTicketsModel(services),
	}
}

// Init starts the cursor blink and the initial data loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.chat.Init(), m.docs.Init(), m.tickets.Init())
}

// Update routes messages: global keys first, then the active view, then
// background results which may belong to an inactive view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
		m.docs, cmd = m.docs.Update(msg)
		cmds = append(cmds, cmd)
		m.tickets, cmd = m.tickets.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			m.active = (m.active + 1) % view(len(viewNames))
			return m, m.refreshActive()
		case tea.KeyShiftTab:
			m.active = (m.active + view(len(viewNames)) - 1) % view(len(viewNames))
			return m, m.refreshActive()
		}

	// Background results go to their owning view even when it lost focus
	// while the command ran.
	case answerMsg, ticketFiledMsg, chatErrMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	case documentsLoadedMsg, documentIngestedMsg, searchHitsMsg, docsErrMsg:
		var cmd tea.Cmd
		m.docs, cmd = m.docs.Update(msg)
		return m, cmd
	case ticketsLoadedMsg, ticketsErrMsg:
		var cmd tea.Cmd
		m.tickets, cmd = m.tickets.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.active {
	case viewChat:
		m.chat, cmd = m.chat.Update(msg)
	case viewDocuments:
		m.docs, cmd = m.docs.Update(msg)
	case viewTickets:
		m.tickets, cmd = m.tickets.Update(msg)
	}
	return m, cmd
}

// refreshActive reloads the data behind the newly focused view.
func (m Model) refreshActive() tea.Cmd {
	switch m.active {
	case viewDocuments:
		return m.docs.load()
	case viewTickets:
		return m.tickets.load()
	}
	return nil
}

// View renders the tab bar above the active view.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var tabs []string
	for i, name := range viewNames {
		if view(i) == m.active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	hint := hintStyle.Render("tab: switch view  ctrl+c: quit")

	var body string
	switch m.active {
	case viewChat:
		body = m.chat.View()
	case viewDocuments:
		body = m.docs.View()
	case viewTickets:
		body = m.tickets.View()
	}
	return bar + "\n" + body + "\n" + hint
}

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Run starts the TUI on the alternate screen and blocks until exit.
func Run(services Services) error {
	p := tea.NewProgram(New(services), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
