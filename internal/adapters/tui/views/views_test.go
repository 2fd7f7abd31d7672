package views

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"firedam/internal/adapters/memory"
	"firedam/internal/application"
	"firedam/internal/domain"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func testBackend(t *testing.T) (*application.Backend, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	s.AddDocument("assets", domain.RawRecord{"id": "asset123", "title": "Summer banner", "category": "image", "tags": []any{"banner"}})
	s.AddDocument("assets", domain.RawRecord{"id": "asset456", "title": "Internal mock", "category": "image"})
	s.AddDocument("assets", domain.RawRecord{"id": "asset789", "title": "Launch video", "category": "video"})
	s.AddDocument("versions", domain.RawRecord{"id": "v1", "assetId": "asset123", "fileUrl": "https://cdn.example.com/v1.png"})
	s.AddObject(domain.AssetBucket, domain.RawRecord{
		"name": "assets/a.png", "contentType": "image/png", "size": int64(10),
		"downloadUrl": "https://storage.example.com/assets/a.png",
	})
	return application.NewBackend(s, s), s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into m
func run(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

func TestExplorer_InitSearchesFirstResource(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)

	run(t, m, m.Init())

	if m.Resource().Name() != "assets" {
		t.Errorf("expected assets tab, got %s", m.Resource().Name())
	}
	if len(m.Records()) != 3 {
		t.Fatalf("expected 3 records, got %d", len(m.Records()))
	}
	if m.MessageErr || m.Message != "3 assets" {
		t.Errorf("unexpected status %q", m.Message)
	}
	if !strings.Contains(m.View(), "asset123") {
		t.Error("expected rows in view")
	}
}

func TestExplorer_FilterEditing(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)
	run(t, m, m.Init())

	m.Update(runes("/"))
	if !m.filtering {
		t.Fatal("expected filter to be focused")
	}
	m.Update(runes("category=video"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)

	if m.filtering {
		t.Error("expected filter to lose focus after enter")
	}
	recs := m.Records()
	if len(recs) != 1 || recs[0]["id"] != "asset789" {
		t.Errorf("expected asset789 only, got %v", recs)
	}
}

func TestExplorer_EscRestoresAppliedFilter(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)

	m.Update(runes("/"))
	m.Update(runes("category=image"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if cmd != nil || m.filtering {
		t.Error("expected esc to leave the filter without searching")
	}
	if m.filter.Value() != "" {
		t.Errorf("expected draft to be discarded, got %q", m.filter.Value())
	}
}

func TestExplorer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantCmd    bool
		wantSubstr string
	}{
		{name: "unparsable pair", filter: "category", wantSubstr: "expected key=value"},
		{name: "duplicate key", filter: "category=a category=b", wantSubstr: "given twice"},
		{name: "unknown attribute", filter: "owner=me", wantCmd: true, wantSubstr: "unknown attribute"},
		{name: "range on string", filter: "category=>=image", wantCmd: true, wantSubstr: "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, store := testBackend(t)
			m := NewExplorerModel(backend, nil)
			m.filter.SetValue(tt.filter)

			cmd := m.Search()
			if (cmd != nil) != tt.wantCmd {
				t.Fatalf("expected command=%v, got %v", tt.wantCmd, cmd != nil)
			}
			if cmd != nil {
				run(t, m, cmd)
			}
			if !m.MessageErr || !strings.Contains(m.Message, tt.wantSubstr) {
				t.Errorf("expected error containing %q, got %q", tt.wantSubstr, m.Message)
			}
			if q, l := store.Calls(); q+l != 0 {
				t.Errorf("expected no backend calls, got %d queries and %d listings", q, l)
			}
		})
	}
}

func TestExplorer_BackendFailure(t *testing.T) {
	backend, store := testBackend(t)
	store.FailWith(domain.Unavailable("memory", "query assets", errors.New("down")))
	m := NewExplorerModel(backend, nil)

	run(t, m, m.Init())

	if !m.MessageErr || len(m.Records()) != 0 {
		t.Errorf("expected failure status and no records, got %q and %d records", m.Message, len(m.Records()))
	}
}

func TestExplorer_DropsStaleResults(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)

	first := m.Search()
	second := m.Search()
	run(t, m, second)
	run(t, m, first)

	if len(m.Records()) != 3 {
		t.Fatalf("expected 3 records, got %d", len(m.Records()))
	}

	m.Update(SearchResultMsg{Seq: 1, Resource: "assets", Err: errors.New("late")})
	if m.MessageErr {
		t.Errorf("stale result changed status: %q", m.Message)
	}
}

func TestExplorer_SwitchTabs(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)
	m.filter.SetValue("category=image")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	run(t, m, cmd)
	if m.Resource().Name() != "versions" {
		t.Fatalf("expected versions, got %s", m.Resource().Name())
	}
	if m.filter.Value() != "" {
		t.Errorf("expected filter to reset, got %q", m.filter.Value())
	}
	if len(m.Records()) != 1 {
		t.Errorf("expected 1 version, got %d", len(m.Records()))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	run(t, m, cmd)
	if m.Resource().Name() != "asset_files" {
		t.Errorf("expected wrap to asset_files, got %s", m.Resource().Name())
	}
}

func TestExplorer_Clipboard(t *testing.T) {
	backend, _ := testBackend(t)
	clip := &fakeClipboard{}
	m := NewExplorerModel(backend, clip)
	run(t, m, m.Init())

	_, cmd := m.Update(runes("y"))
	msg := run(t, m, cmd)
	if c := msg.(CopiedMsg); c.Err != nil || c.What != "record" {
		t.Fatalf("unexpected copy result %+v", c)
	}
	if !strings.Contains(clip.text, `"id": "asset123"`) {
		t.Errorf("expected record json, got %s", clip.text)
	}

	_, cmd = m.Update(runes("u"))
	msg = run(t, m, cmd)
	if c := msg.(CopiedMsg); !errors.Is(c.Err, errNoURL) {
		t.Errorf("expected missing url error, got %v", c.Err)
	}
	if !m.MessageErr {
		t.Error("expected error status")
	}
}

func TestExplorer_CopyDownloadURL(t *testing.T) {
	backend, _ := testBackend(t)
	clip := &fakeClipboard{}
	m := NewExplorerModel(backend, clip)
	m.active = 3
	run(t, m, m.Search())

	_, cmd := m.Update(runes("u"))
	run(t, m, cmd)
	if clip.text != "https://storage.example.com/assets/a.png" {
		t.Errorf("expected download url, got %q", clip.text)
	}
}

func TestExplorer_NoClipboard(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)
	run(t, m, m.Init())

	_, cmd := m.Update(runes("y"))
	msg := run(t, m, cmd)
	if c := msg.(CopiedMsg); !errors.Is(c.Err, errNoClipboard) {
		t.Errorf("expected clipboard error, got %v", c.Err)
	}
}

func TestExplorer_OpenDetail(t *testing.T) {
	backend, _ := testBackend(t)
	m := NewExplorerModel(backend, nil)
	run(t, m, m.Init())

	m.Update(runes("j"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(SwitchToDetailMsg)
	if !ok {
		t.Fatalf("expected SwitchToDetailMsg")
	}
	if msg.Resource != "assets" || msg.Record["id"] != "asset456" {
		t.Errorf("unexpected detail target %+v", msg)
	}
}

func TestRowSummary(t *testing.T) {
	desc, err := domain.NewRegistry().Describe("assets")
	if err != nil {
		t.Fatal(err)
	}

	got := RowSummary(desc, domain.ResultRecord{
		"id":         "a1",
		"title":      "Hero",
		"category":   "image",
		"tags":       []string{"x"},
		"visibility": "public",
	})

	for _, want := range []string{"a1", "title=Hero", "category=image"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "tags=") {
		t.Errorf("expected at most two extra fields, got %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{[]string{"a", "b"}, "[a, b]"},
		{int64(42), "42"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetail_ShowsFields(t *testing.T) {
	clip := &fakeClipboard{}
	m := NewDetailModel(domain.NewRegistry(), clip)
	m.SetRecord("versions", domain.ResultRecord{"id": "v1", "assetId": "asset123", "fileUrl": "https://cdn.example.com/v1.png"})

	view := m.View()
	for _, want := range []string{"versions v1", "asset123", "fileUrl"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}

	_, cmd := m.Update(runes("u"))
	run(t, m, cmd)
	if clip.text != "https://cdn.example.com/v1.png" {
		t.Errorf("expected file url, got %q", clip.text)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(SwitchToExplorerMsg); !ok {
		t.Error("expected esc to return to the explorer")
	}
}

func TestDetail_UnknownResource(t *testing.T) {
	m := NewDetailModel(domain.NewRegistry(), nil)
	m.SetRecord("users", domain.ResultRecord{"id": "u1"})
	if !m.MessageErr || !strings.Contains(m.View(), "users") {
		t.Errorf("expected unknown resource error, got %q", m.Message)
	}
}

func TestPaginator_SetPageSize(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)
	p.SetCursor(23)
	if p.CurrentPage() != 3 {
		t.Fatalf("expected page 3, got %d", p.CurrentPage())
	}

	p.SetPageSize(5)
	if p.CurrentPage() != 5 || p.TotalPages() != 5 {
		t.Errorf("expected page 5 of 5, got %d of %d", p.CurrentPage(), p.TotalPages())
	}
	start, end := p.VisibleRange()
	if start != 20 || end != 25 {
		t.Errorf("expected range 20-25, got %d-%d", start, end)
	}

	p.SetPageSize(0)
	if p.TotalPages() != 25 {
		t.Errorf("expected page size clamped to 1, got %d pages", p.TotalPages())
	}
}

func TestPaginator_Navigation(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		move       func(p *Paginator) bool
		wantMoved  bool
		wantCursor int
		wantPage   int
	}{
		{"down within page", 12, func(p *Paginator) bool { return p.CursorDown() }, true, 1, 1},
		{"up at top", 12, func(p *Paginator) bool { return p.CursorUp() }, false, 0, 1},
		{"next page", 12, func(p *Paginator) bool { return p.NextPage() }, true, 5, 2},
		{"down crosses page", 12, func(p *Paginator) bool { p.SetCursor(4); return p.CursorDown() }, true, 5, 2},
		{"up crosses page", 12, func(p *Paginator) bool { p.SetCursor(5); return p.CursorUp() }, true, 4, 1},
		{"down at last row", 12, func(p *Paginator) bool { p.SetCursor(11); return p.CursorDown() }, false, 11, 3},
		{"next on last page", 12, func(p *Paginator) bool { p.SetCursor(10); return p.NextPage() }, false, 10, 3},
		{"prev page", 12, func(p *Paginator) bool { p.SetCursor(7); return p.PrevPage() }, true, 0, 1},
		{"cursor clamped", 12, func(p *Paginator) bool { p.SetCursor(40); return true }, true, 11, 3},
		{"empty result", 0, func(p *Paginator) bool { return p.CursorDown() }, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator(5)
			p.SetTotal(tt.total)
			if moved := tt.move(p); moved != tt.wantMoved {
				t.Errorf("expected moved %v, got %v", tt.wantMoved, moved)
			}
			if p.Cursor() != tt.wantCursor {
				t.Errorf("expected cursor %d, got %d", tt.wantCursor, p.Cursor())
			}
			if p.CurrentPage() != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, p.CurrentPage())
			}
		})
	}
}

func TestPaginator_ShrinkingTotalKeepsCursorVisible(t *testing.T) {
	p := NewPaginator(5)
	p.SetTotal(20)
	p.SetCursor(18)
	p.SetTotal(7)
	if p.Cursor() != 6 || p.CurrentPage() != 2 {
		t.Errorf("expected cursor 6 on page 2, got %d on page %d", p.Cursor(), p.CurrentPage())
	}
	start, end := p.VisibleRange()
	if start != 5 || end != 7 {
		t.Errorf("expected range 5-7, got %d-%d", start, end)
	}
}
