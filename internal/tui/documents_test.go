package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leasedesk/cli/internal/vectorindex"
)

func TestDocumentsView_FocusToggle(t *testing.T) {
	m := newDocumentsModel(Services{})
	if m.focus != focusPath {
		t.Fatal("path input should have focus initially")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.focus != focusSearch {
		t.Error("ctrl+f should move focus to the search input")
	}
	if m.path.Focused() || !m.search.Focused() {
		t.Error("textinput focus should follow the view focus")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.focus != focusPath {
		t.Error("ctrl+f should toggle back to the path input")
	}
}

func TestDocumentsView_RendersSearchHits(t *testing.T) {
	m := newDocumentsModel(Services{})
	m, _ = m.Update(searchHitsMsg{
		query: "pets",
		hits: []vectorindex.Result{
			{
				Meta: vectorindex.Metadata{FileName: "lease.pdf", Page: 3},
				Text: "no pets\nwithout written consent",
			},
		},
	})

	view := m.View()
	if !strings.Contains(view, "lease.pdf p.3") {
		t.Errorf("view should name the hit source, got:\n%s", view)
	}
	if !strings.Contains(view, "no pets without written consent") {
		t.Errorf("view should show the hit text with newlines flattened, got:\n%s", view)
	}
	if !strings.Contains(m.status, "1 fragment hit") {
		t.Errorf("status should report the hit count, got %q", m.status)
	}
}

func TestDocumentsView_NoHitsStatus(t *testing.T) {
	m := newDocumentsModel(Services{})
	m, _ = m.Update(searchHitsMsg{query: "helicopters"})
	if !strings.Contains(m.status, "No hits") {
		t.Errorf("status should flag an empty search, got %q", m.status)
	}
}

func TestRenderHits_TruncatesPreview(t *testing.T) {
	long := strings.Repeat("x", hitPreviewChars+50)
	out := renderHits([]vectorindex.Result{{
		Meta: vectorindex.Metadata{FileName: "rules.pdf", Page: 1},
		Text: long,
	}})
	if got := len([]rune(out)); got > hitPreviewChars+40 {
		t.Errorf("preview should be capped, rendered %d runes", got)
	}
}
