package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/kv"
	"github.com/five82/dossier/internal/overlay"
	"github.com/five82/dossier/internal/prefs"
)

const pageSize = 20

type fakeCatalog struct {
	mu       sync.Mutex
	entries  []catalog.Entry
	failPage bool
	pages    []int
	names    []string
}

func newFakeCatalog(n int) *fakeCatalog {
	f := &fakeCatalog{}
	for id := 1; id <= n; id++ {
		f.entries = append(f.entries, catalog.Entry{
			ID:      id,
			Name:    fmt.Sprintf("Character %d", id),
			Status:  "Alive",
			Species: "Human",
		})
	}
	f.entries[0].Name = "Rick Sanchez"
	f.entries[1].Name = "Morty Smith"
	return f
}

func (f *fakeCatalog) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	if f.failPage {
		return catalog.Page{}, &catalog.Error{Op: "fetch-page", Kind: catalog.ErrNetwork}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(f.entries) {
		start = len(f.entries)
	}
	if end > len(f.entries) {
		end = len(f.entries)
	}
	return catalog.Page{
		Number:  page,
		Entries: append([]catalog.Entry(nil), f.entries[start:end]...),
		HasMore: end < len(f.entries),
		Count:   len(f.entries),
	}, nil
}

func (f *fakeCatalog) FetchByName(ctx context.Context, term string) ([]catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, term)
	var out []catalog.Entry
	for _, e := range f.entries {
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(term)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FetchByID(ctx context.Context, id int) (catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return catalog.Entry{}, &catalog.Error{Op: "fetch-by-id", Kind: catalog.ErrNotFound}
}

func (f *fakeCatalog) nameQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

func (f *fakeCatalog) pageCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

func newTestModel(t *testing.T, f *fakeCatalog) (Model, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	m := New(Options{
		Context:          context.Background(),
		Fetcher:          f,
		Store:            store,
		Logger:           log.New(io.Discard, "", 0),
		SearchDebounce:   time.Millisecond,
		OverlayAnimation: time.Millisecond,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return drain(t, m, m.Init()), store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs every command it produced to completion.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// drain executes cmd and feeds the resulting messages back into the model
// until nothing is left. Spinner ticks are dropped so the loop ends.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatalf("command queue did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nc)
		}
	}
	return m
}

func TestModel_InitialLoadShowsFirstPage(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	p := m.panes[ViewBrowse]
	if got := len(p.entries()); got != pageSize {
		t.Fatalf("entries = %d, want %d", got, pageSize)
	}
	view := m.View()
	if !strings.Contains(view, "Rick Sanchez") {
		t.Fatalf("view missing first entry:\n%s", view)
	}
	if !strings.Contains(view, "20 of 40 characters") {
		t.Fatalf("view missing status line:\n%s", view)
	}
}

func TestModel_ScrollToEndLoadsUntilExhausted(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	m = press(t, m, "G")
	if got := len(m.panes[ViewBrowse].entries()); got != 40 {
		t.Fatalf("entries = %d, want 40", got)
	}
	m = press(t, m, "G", "m")
	if calls := f.pageCalls(); len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("page calls = %v, want [1 2]", calls)
	}
	if !strings.Contains(m.View(), "All 40 characters loaded") {
		t.Fatalf("view missing exhausted status:\n%s", m.View())
	}
}

func TestModel_SearchBurstIssuesOneQuery(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	m = press(t, m, "/")
	var cmds []tea.Cmd
	for _, r := range []string{"r", "i", "c"} {
		next, cmd := m.Update(keyMsg(r))
		m = next.(Model)
		cmds = append(cmds, cmd)
	}
	m = drain(t, m, tea.Batch(cmds...))

	if got := f.nameQueries(); len(got) != 1 || got[0] != "ric" {
		t.Fatalf("name queries = %v, want [ric]", got)
	}
	entries := m.panes[ViewBrowse].entries()
	if len(entries) != 1 || entries[0].Name != "Rick Sanchez" {
		t.Fatalf("search entries = %v, want Rick only", entries)
	}

	// Leaving search returns to pagination from page 1.
	m = press(t, m, "esc")
	if got := len(m.panes[ViewBrowse].entries()); got != pageSize {
		t.Fatalf("after clearing search: entries = %d, want %d", got, pageSize)
	}
	if m.panes[ViewBrowse].term() != "" {
		t.Fatalf("still in search mode after esc")
	}
}

func TestModel_FavoriteToggleFlowsToFavoritesView(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	m = press(t, m, "f", "tab")
	if m.active != ViewFavorites {
		t.Fatalf("active view = %v, want favorites", m.active)
	}
	favs := m.panes[ViewFavorites].entries()
	if len(favs) != 1 || favs[0].ID != 1 {
		t.Fatalf("favorites = %v, want [1]", favs)
	}

	// Favorites cannot be cleared from the favorites view.
	m = press(t, m, "f")
	if !m.panes[ViewFavorites].favs.IsFavorite(1) {
		t.Fatalf("favorite cleared from favorites view")
	}
	if !strings.Contains(m.View(), "remove it from Browse") {
		t.Fatalf("view missing notice:\n%s", m.View())
	}

	m = press(t, m, "tab", "f", "tab")
	if got := m.panes[ViewFavorites].entries(); len(got) != 0 {
		t.Fatalf("favorites after unfavorite = %v, want none", got)
	}
	if !strings.Contains(m.View(), "No liked characters yet") {
		t.Fatalf("view missing empty message:\n%s", m.View())
	}
}

func TestModel_FavoritesSearchKeepsOnlyFavorites(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	// Favorite Morty (row 2) only; then search "s" which matches both
	// Rick Sanchez and Morty Smith.
	m = press(t, m, "j", "f", "tab", "/", "s")
	got := m.panes[ViewFavorites].entries()
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("favorites search = %v, want Morty only", got)
	}
}

func TestModel_DetailOverlayCapturesInput(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	m = press(t, m, "enter")
	p := m.panes[ViewBrowse]
	if !p.overlay.Open() || p.overlay.State().Phase != overlay.Settled {
		t.Fatalf("overlay state = %+v, want settled", p.overlay.State())
	}
	view := m.View()
	if !strings.Contains(view, "Rick Sanchez") || !strings.Contains(view, "Unknown") {
		t.Fatalf("detail view missing name or Unknown fallback:\n%s", view)
	}

	// List keys are swallowed while the panel is open.
	m = press(t, m, "G", "tab")
	if p.cursor != 0 || m.active != ViewBrowse {
		t.Fatalf("keys leaked through overlay: cursor=%d view=%v", p.cursor, m.active)
	}

	// Favorite from inside the panel.
	m = press(t, m, "f")
	if !p.favs.IsFavorite(1) {
		t.Fatalf("toggle inside overlay did not favorite")
	}

	m = press(t, m, "esc")
	if p.overlay.Open() {
		t.Fatalf("overlay still open after close animation")
	}
	if _, ok := p.overlay.Selected(); ok {
		t.Fatalf("selection not cleared after close")
	}
}

func TestModel_ReopenWhileClosingKeepsPanel(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)

	m = press(t, m, "enter")
	p := m.panes[ViewBrowse]

	next, exitFrame := m.Update(keyMsg("esc"))
	m = next.(Model)
	if p.overlay.State().Status != overlay.Hiding {
		t.Fatalf("status = %v, want hiding", p.overlay.State().Status)
	}

	m = press(t, m, "enter")
	if st := p.overlay.State(); st.Status != overlay.Showing || st.Entry.ID != 1 {
		t.Fatalf("overlay state = %+v, want showing entry 1", st)
	}

	// The exit frame scheduled before reopening must not unmount the panel.
	m = drain(t, m, exitFrame)
	if !p.overlay.Open() {
		t.Fatalf("stale exit frame closed the reopened panel")
	}
	if !strings.Contains(m.View(), "Rick Sanchez") {
		t.Fatalf("detail panel not rendered after reopen")
	}
}

func TestModel_ViewDoesNotScroll(t *testing.T) {
	f := newFakeCatalog(40)
	m, _ := newTestModel(t, f)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 13})
	p := m.panes[ViewBrowse]

	p.cursor = 12
	_ = m.View()
	if p.offset != 0 {
		t.Fatalf("View moved offset to %d", p.offset)
	}

	m = press(t, m, "j")
	if p.offset != 4 || p.cursor < p.offset || p.cursor >= p.offset+m.listRows() {
		t.Fatalf("cursor %d outside window at offset %d", p.cursor, p.offset)
	}
}

func TestModel_PageFailureCanBeRetried(t *testing.T) {
	f := newFakeCatalog(40)
	f.failPage = true
	m, _ := newTestModel(t, f)

	if !strings.Contains(m.View(), "catalog unreachable") {
		t.Fatalf("view missing error:\n%s", m.View())
	}

	f.mu.Lock()
	f.failPage = false
	f.mu.Unlock()

	m = press(t, m, "r")
	if got := len(m.panes[ViewBrowse].entries()); got != pageSize {
		t.Fatalf("entries after retry = %d, want %d", got, pageSize)
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	f := newFakeCatalog(40)
	m, store := newTestModel(t, f)

	initial := m.theme.Name
	m = press(t, m, "T")
	if m.theme.Name == initial {
		t.Fatalf("theme did not change")
	}
	saved, err := prefs.Load(context.Background(), store)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	m, _ := newTestModel(t, newFakeCatalog(5))

	m = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m = press(t, m, "j")
	if m.showHelp {
		t.Fatalf("help still shown")
	}
}
