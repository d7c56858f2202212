package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leasedesk/cli/internal/db"
)

type ticketsLoadedMsg struct{ tickets []*db.Ticket }

type ticketsErrMsg struct{ err error }

// ticketsModel shows the maintenance queue and walks tickets through their
// lifecycle.
type ticketsModel struct {
	services Services
	tickets  []*db.Ticket
	cursor   int
	status   string
}

func newTicketsModel(services Services) ticketsModel {
	return ticketsModel{
		services: services,
		status:   "enter: advance status  o: reopen  d: delete  r: refresh",
	}
}

func (t ticketsModel) Init() tea.Cmd { return t.load() }

func (t ticketsModel) load() tea.Cmd {
	s := t.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tickets, err := s.DB.ListTickets(ctx, "", "")
		if err != nil {
			return ticketsErrMsg{err: err}
		}
		return ticketsLoadedMsg{tickets: tickets}
	}
}

func (t ticketsModel) Update(msg tea.Msg) (ticketsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if t.cursor < len(t.tickets)-1 {
				t.cursor++
			}
		case "k", "up":
			if t.cursor > 0 {
				t.cursor--
			}
		case "r":
			return t, t.load()
		case "enter":
			if tk := t.current(); tk != nil {
				if next, ok := nextStatus(tk.Status); ok {
					return t, t.setStatus(tk.ID, next)
				}
			}
		case "o":
			if tk := t.current(); tk != nil && tk.Status == db.StatusClosed {
				return t, t.setStatus(tk.ID, db.StatusOpen)
			}
		case "d":
			if tk := t.current(); tk != nil {
				return t, t.delete(tk.ID)
			}
		}

	case ticketsLoadedMsg:
		t.tickets = msg.tickets
		if t.cursor >= len(t.tickets) {
			t.cursor = 0
		}

	case ticketsErrMsg:
		t.status = errStyle.Render("Error: " + msg.err.Error())
	}
	return t, nil
}

func (t ticketsModel) current() *db.Ticket {
	if t.cursor < 0 || t.cursor >= len(t.tickets) {
		return nil
	}
	return t.tickets[t.cursor]
}

// nextStatus is the forward lifecycle step; closed tickets have none.
func nextStatus(s db.Status) (db.Status, bool) {
	switch s {
	case db.StatusOpen:
		return db.StatusInProgress, true
	case db.StatusInProgress:
		return db.StatusClosed, true
	default:
		return s, false
	}
}

func (t ticketsModel) delete(id int64) tea.Cmd {
	s := t.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.DB.DeleteTicket(ctx, id); err != nil {
			return ticketsErrMsg{err: err}
		}
		tickets, err := s.DB.ListTickets(ctx, "", "")
		if err != nil {
			return ticketsErrMsg{err: err}
		}
		return ticketsLoadedMsg{tickets: tickets}
	}
}

func (t ticketsModel) setStatus(id int64, status db.Status) tea.Cmd {
	s := t.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.DB.SetTicketStatus(ctx, id, status); err != nil {
			return ticketsErrMsg{err: err}
		}
		tickets, err := s.DB.ListTickets(ctx, "", "")
		if err != nil {
			return ticketsErrMsg{err: err}
		}
		return ticketsLoadedMsg{tickets: tickets}
	}
}

var selectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

func (t ticketsModel) View() string {
	var b strings.Builder
	if len(t.tickets) == 0 {
		b.WriteString("No tickets.")
	} else {
		for i, tk := range t.tickets {
			row := fmt.Sprintf("#%-4d %-8s %-11s %-6s %-12s %s",
				tk.ID, tk.UnitID, tk.Status, tk.Priority, tk.Category, tk.Summary)
			if i == t.cursor {
				row = selectedRowStyle.Render("> " + row)
			} else {
				row = "  " + row
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}
	return boxStyle.Render(b.String()) + "\n" + t.status
}
