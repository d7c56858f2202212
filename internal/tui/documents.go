package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leasedesk/cli/internal/db"
	"github.com/leasedesk/cli/internal/vectorindex"
)

const ingestTimeout = 5 * time.Minute

type documentsLoadedMsg struct{ docs []*db.Document }

type documentIngestedMsg struct {
	doc       *db.Document
	fragments int
}

type searchHitsMsg struct {
	query string
	hits  []vectorindex.Result
}

type docsErrMsg struct{ err error }

type docsFocus int

const (
	focusPath docsFocus = iota
	focusSearch
)

// documentsModel lists the registry, ingests new PDFs by path, and offers
// a raw vector search to sanity-check what got indexed.
type documentsModel struct {
	services Services
	path     textinput.Model
	search   textinput.Model
	focus    docsFocus
	docs     []*db.Document
	hits     []vectorindex.Result
	lastTerm string
	status   string
	busy     bool
	height   int
}

func newDocumentsModel(services Services) documentsModel {
	path := textinput.New()
	path.Prompt = "path> "
	path.Placeholder = "/path/to/lease.pdf [unit]"
	path.Focus()
	path.CharLimit = 0

	search := textinput.New()
	search.Prompt = "search> "
	search.Placeholder = "Quick test: find indexed fragments (active unit only)"
	search.CharLimit = 0

	return documentsModel{
		services: services,
		path:     path,
		search:   search,
		status:   "Enter a PDF path to ingest. ctrl+f: switch to fragment search.",
	}
}

func (d documentsModel) Init() tea.Cmd { return d.load() }

// load fetches the document registry.
func (d documentsModel) load() tea.Cmd {
	s := d.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		docs, err := s.DB.GetAllDocuments(ctx)
		if err != nil {
			return docsErrMsg{err: err}
		}
		return documentsLoadedMsg{docs: docs}
	}
}

func (d documentsModel) Update(msg tea.Msg) (documentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.height = msg.Height
		return d, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlF:
			if d.focus == focusPath {
				d.focus = focusSearch
				d.path.Blur()
				d.search.Focus()
			} else {
				d.focus = focusPath
				d.search.Blur()
				d.path.Focus()
			}
			return d, nil
		case tea.KeyEnter:
			if d.busy {
				return d, nil
			}
			if d.focus == focusSearch {
				term := strings.TrimSpace(d.search.Value())
				if term == "" {
					return d, nil
				}
				d.busy = true
				d.status = "Searching fragments..."
				return d, d.findFragments(term)
			}
			line := strings.TrimSpace(d.path.Value())
			if line == "" {
				return d, nil
			}
			path := line
			unit := d.services.Cfg.DefaultUnit
			if fields := strings.Fields(line); len(fields) == 2 {
				path, unit = fields[0], fields[1]
			}
			d.path.Reset()
			d.busy = true
			d.status = "Ingesting " + path + "..."
			return d, d.ingest(path, unit)
		}

	case documentsLoadedMsg:
		d.docs = msg.docs
		return d, nil

	case documentIngestedMsg:
		d.busy = false
		d.status = okStyle.Render(fmt.Sprintf(
			"Ingested %s v%d: %d pages, %d fragments.",
			msg.doc.Name, msg.doc.Version, msg.doc.Pages, msg.fragments,
		))
		return d, d.load()

	case searchHitsMsg:
		d.busy = false
		d.hits = msg.hits
		d.lastTerm = msg.query
		if len(msg.hits) == 0 {
			d.status = fmt.Sprintf("No hits for %q. Try another keyword, or check that documents were indexed.", msg.query)
		} else {
			d.status = fmt.Sprintf("%d fragment hits for %q.", len(msg.hits), msg.query)
		}
		return d, nil

	case docsErrMsg:
		d.busy = false
		d.status = errStyle.Render("Error: " + msg.err.Error())
		return d, nil
	}

	var cmd tea.Cmd
	switch d.focus {
	case focusSearch:
		d.search, cmd = d.search.Update(msg)
	default:
		d.path, cmd = d.path.Update(msg)
	}
	return d, cmd
}

// ingest runs the full pipeline on one file.
func (d documentsModel) ingest(path, unit string) tea.Cmd {
	s := d.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()
		doc, fragments, err := s.Processor.IngestFile(ctx, path, unit)
		if err != nil {
			return docsErrMsg{err: err}
		}
		return documentIngestedMsg{doc: doc, fragments: fragments}
	}
}

// findFragments runs a raw retrieval pass, scoped to the active unit, so
// indexing problems surface without involving the chat model.
func (d documentsModel) findFragments(term string) tea.Cmd {
	s := d.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		hits, err := s.Searcher.Search(ctx, term, s.Cfg.DefaultUnit)
		if err != nil {
			return docsErrMsg{err: err}
		}
		return searchHitsMsg{query: term, hits: hits}
	}
}

// hitPreviewChars bounds how much fragment text a search hit shows.
const hitPreviewChars = 240

func (d documentsModel) View() string {
	var b strings.Builder
	if len(d.docs) == 0 {
		b.WriteString("No documents uploaded yet.")
	} else {
		for _, doc := range d.docs {
			unit := doc.UnitID
			if unit == "" {
				unit = "-"
			}
			fmt.Fprintf(&b, "%-10s  v%-2d  unit %-8s  %3d pages  %s\n",
				doc.ID, doc.Version, unit, doc.Pages, doc.Name)
		}
	}

	input := d.path.View()
	if d.focus == focusSearch {
		input = d.search.View()
	}

	out := boxStyle.Render(b.String()) + "\n" + boxStyle.Render(input)
	if d.lastTerm != "" {
		out += "\n" + boxStyle.Render(renderHits(d.hits))
	}
	return out + "\n" + d.status
}

func renderHits(hits []vectorindex.Result) string {
	if len(hits) == 0 {
		return "No hits."
	}
	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n")
		}
		preview := strings.ReplaceAll(h.Text, "\n", " ")
		if runes := []rune(preview); len(runes) > hitPreviewChars {
			preview = string(runes[:hitPreviewChars])
		}
		fmt.Fprintf(&b, "- %s p.%d  %s", h.Meta.FileName, h.Meta.Page, preview)
	}
	return b.String()
}
