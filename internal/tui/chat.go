package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leasedesk/cli/internal/db"
	"github.com/leasedesk/cli/internal/intent"
)

const askTimeout = 90 * time.Second

// answerMsg carries one completed question/answer round plus whatever the
// ticket auto-flow decided about it.
type answerMsg struct {
	question  string
	answer    string
	draft     *intent.TicketDraft
	ticketID  int64
	duplicate bool
}

type chatErrMsg struct{ err error }

type chatTurn struct {
	question string
	answer   string
}

// chatModel is the question-and-answer view. Enter sends the input to the
// answering pipeline; the reply and any ticket activity land asynchronously.
type chatModel struct {
	services Services
	input    textinput.Model
	viewport viewport.Model
	turns    []chatTurn
	pending  *intent.TicketDraft
	status   string
	busy     bool
	width    int
}

func newChatModel(services Services) chatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your lease, or report a problem"
	ti.Focus()
	ti.CharLimit = 0
	return chatModel{
		services: services,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   fmt.Sprintf("Unit %s. Type a question and press Enter.", services.Cfg.DefaultUnit),
	}
}

func (c chatModel) Init() tea.Cmd { return textinput.Blink }

func (c chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		_, fh := boxStyle.GetFrameSize()
		h := msg.Height - fh - 5
		if h < 3 {
			h = 3
		}
		c.viewport.Width = msg.Width - 4
		c.viewport.Height = h
		c.viewport.SetContent(c.renderTranscript())
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			q := strings.TrimSpace(c.input.Value())
			if q == "" || c.busy {
				return c, nil
			}
			c.input.Reset()
			c.busy = true
			c.pending = nil
			c.status = "Thinking..."
			return c, c.ask(q)
		case tea.KeyCtrlY:
			if c.pending != nil {
				draft := c.pending
				c.pending = nil
				c.status = "Filing ticket..."
				return c, c.fileTicket(draft)
			}
		case tea.KeyUp:
			c.viewport.LineUp(3)
			return c, nil
		case tea.KeyDown:
			c.viewport.LineDown(3)
			return c, nil
		}

	case answerMsg:
		c.busy = false
		c.turns = append(c.turns, chatTurn{question: msg.question, answer: msg.answer})
		c.viewport.SetContent(c.renderTranscript())
		c.viewport.GotoBottom()
		switch {
		case msg.ticketID != 0:
			c.status = okStyle.Render(fmt.Sprintf("Ticket #%d created (%s, %s).", msg.ticketID, msg.draft.Category, msg.draft.Priority))
		case msg.duplicate:
			c.status = fmt.Sprintf("Similar %s ticket already open for unit %s; not filed again.", msg.draft.Category, msg.draft.UnitID)
		case msg.draft != nil:
			c.pending = msg.draft
			c.status = fmt.Sprintf("Draft ticket: %s / %s — %q. Press ctrl+y to file it.", msg.draft.Category, msg.draft.Priority, msg.draft.Summary)
		default:
			c.status = "Ready."
		}
		return c, nil

	case ticketFiledMsg:
		c.status = okStyle.Render(fmt.Sprintf("Ticket #%d created.", msg.id))
		return c, nil

	case chatErrMsg:
		c.busy = false
		c.status = errStyle.Render("Error: " + msg.err.Error())
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c chatModel) View() string {
	transcript := boxStyle.Render(c.viewport.View())
	return transcript + "\n" + boxStyle.Render(c.input.View()) + "\n" + c.status
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle   = lipgloss.NewStyle()
)

func (c chatModel) renderTranscript() string {
	if len(c.turns) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, t := range c.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + t.question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Render(t.answer))
	}
	return b.String()
}

// ask answers the question and, when the message carries maintenance
// intent, runs the auto-ticket flow: extract a draft, gate on confidence,
// skip duplicates, file. Intent failures never suppress the answer.
func (c chatModel) ask(question string) tea.Cmd {
	s := c.services
	unit := s.Cfg.DefaultUnit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()

		answer, err := s.Answerer.Answer(ctx, question, unit)
		if err != nil {
			return chatErrMsg{err: err}
		}
		out := answerMsg{question: question, answer: answer}

		draft, err := intent.ExtractDraft(ctx, s.LLM, s.Cfg.Models.Chat, unit, question)
		if err != nil || draft == nil {
			return out
		}
		out.draft = draft

		if !intent.HighConfidence(draft, s.Cfg.Tickets.ConfidenceThreshold) {
			return out
		}

		window := time.Duration(s.Cfg.Tickets.DuplicateWindowHrs) * time.Hour
		dup, err := s.DB.DuplicateExists(ctx, draft.UnitID, draft.Category, window)
		if err != nil {
			return out
		}
		if dup {
			out.duplicate = true
			return out
		}

		id, err := s.DB.CreateTicket(ctx, db.TicketInput{
			UnitID:       draft.UnitID,
			Category:     draft.Category,
			Priority:     draft.Priority,
			Summary:      draft.Summary,
			AccessWindow: draft.AccessWindow,
			Reporter:     "tenant",
		})
		if err != nil {
			return out
		}
		out.ticketID = id
		return out
	}
}

type ticketFiledMsg struct{ id int64 }

// fileTicket persists a confirmed low-confidence draft.
func (c chatModel) fileTicket(draft *intent.TicketDraft) tea.Cmd {
	s := c.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		id, err := s.DB.CreateTicket(ctx, db.TicketInput{
			UnitID:       draft.UnitID,
			Category:     draft.Category,
			Priority:     draft.Priority,
			Summary:      draft.Summary,
			AccessWindow: draft.AccessWindow,
			Reporter:     "tenant",
		})
		if err != nil {
			return chatErrMsg{err: err}
		}
		return ticketFiledMsg{id: id}
	}
}
