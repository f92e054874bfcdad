package ui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/browse"
	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/favorites"
	"github.com/five82/dossier/internal/kv"
	"github.com/five82/dossier/internal/overlay"
	"github.com/five82/dossier/internal/search"
)

// View identifies one of the two catalog views.
type View int

const (
	ViewBrowse View = iota
	ViewFavorites
)

func (v View) String() string {
	if v == ViewFavorites {
		return "Favorites"
	}
	return "Browse"
}

// pane is the state behind one view. Each view keeps its own copy of the
// favorites set, its own search box and its own detail overlay.
type pane struct {
	kind View
	caps favorites.Capabilities

	favs     *favorites.Store
	debounce *search.Debouncer
	input    textinput.Model
	overlay  *overlay.Machine

	// Exactly one of these drives the list.
	browse     *browse.Controller
	projection *favorites.Projection

	cursor int
	offset int
}

// paneMsg routes a command result back to the pane that issued it.
type paneMsg struct {
	view View
	msg  tea.Msg
}

// activatedMsg carries the favorites set loaded when a view is entered.
type activatedMsg struct {
	favs favorites.Map
}

type paneConfig struct {
	ctx       context.Context
	fetcher   catalog.Fetcher
	store     kv.Store
	logger    *log.Logger
	debounce  time.Duration
	animation time.Duration
	clock     search.Clock
}

func newPane(kind View, cfg paneConfig) *pane {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search by name"
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorStatic)

	p := &pane{
		kind: kind,
		favs: favorites.NewStore(cfg.store,
			favorites.WithLogger(cfg.logger),
			favorites.WithContext(cfg.ctx),
		),
		debounce: search.New(cfg.debounce, cfg.clock),
		input:    input,
		overlay:  overlay.New(cfg.animation),
	}
	switch kind {
	case ViewFavorites:
		p.caps = favorites.FavoritesCapabilities
		p.projection = favorites.NewProjection(cfg.ctx, cfg.fetcher, cfg.logger)
	default:
		p.caps = favorites.BrowseCapabilities
		p.browse = browse.New(cfg.ctx, cfg.fetcher, cfg.logger)
	}
	return p
}

// wrap tags the result of cmd with this pane.
func (p *pane) wrap(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	view := p.kind
	return func() tea.Msg {
		msg := cmd()
		if msg == nil {
			return nil
		}
		return paneMsg{view: view, msg: msg}
	}
}

// activate flushes the other view's pending favorites write, then reloads
// this view's copy, so a toggle made elsewhere is visible here.
func (p *pane) activate(ctx context.Context, other *pane) tea.Cmd {
	own, prev := p.favs, other.favs
	return p.wrap(func() tea.Msg {
		_ = prev.Flush(ctx)
		return activatedMsg{favs: own.Load(ctx)}
	})
}

// entries returns the list currently displayed.
func (p *pane) entries() []catalog.Entry {
	if p.projection != nil {
		return p.projection.Entries()
	}
	return p.browse.View().Entries
}

func (p *pane) loading() bool {
	if p.projection != nil {
		return p.projection.Loading()
	}
	return p.browse.View().Loading
}

func (p *pane) err() error {
	if p.projection != nil {
		return p.projection.Err()
	}
	return p.browse.View().Err
}

// term is the search term the list currently reflects.
func (p *pane) term() string {
	if p.projection != nil {
		return p.projection.Term()
	}
	return p.browse.Term()
}

func (p *pane) selected() (catalog.Entry, bool) {
	entries := p.entries()
	if p.cursor < 0 || p.cursor >= len(entries) {
		return catalog.Entry{}, false
	}
	return entries[p.cursor], true
}

// move shifts the cursor by delta and keeps it inside the list.
func (p *pane) move(delta int) {
	p.cursor = clamp(p.cursor+delta, 0, len(p.entries())-1)
}

// settle clamps the cursor after the list changed and scrolls it into a
// window of rows lines.
func (p *pane) settle(rows int) {
	p.cursor = clamp(p.cursor, 0, len(p.entries())-1)
	p.scroll(rows)
}

// scroll keeps the cursor inside a window of rows lines.
func (p *pane) scroll(rows int) {
	if rows <= 0 {
		p.offset = 0
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
	p.offset = clamp(p.offset, 0, len(p.entries())-rows)
}

// nearEnd reports whether the cursor is close enough to the bottom of a
// paginated list to fetch more.
func (p *pane) nearEnd() bool {
	if p.browse == nil || p.browse.Term() != "" {
		return false
	}
	return p.cursor >= len(p.entries())-LoadMoreThreshold
}

// loadMore asks the pagination controller for the next page.
func (p *pane) loadMore() tea.Cmd {
	if p.browse == nil {
		return nil
	}
	return p.wrap(p.browse.RequestMore())
}

// typed feeds a changed search box value to the debouncer.
func (p *pane) typed() tea.Cmd {
	return p.wrap(p.debounce.Input(p.input.Value()))
}

// clearSearch empties the search box and returns the list to its unfiltered
// state immediately.
func (p *pane) clearSearch() tea.Cmd {
	p.input.SetValue("")
	p.input.Blur()
	p.debounce.Cancel()
	if p.term() == "" {
		return nil
	}
	p.cursor, p.offset = 0, 0
	if p.projection != nil {
		return p.wrap(p.projection.Activate(p.favs.Snapshot()))
	}
	p.browse.Reset()
	return p.loadMore()
}

// query runs a debounced search. An empty term leaves search mode.
func (p *pane) query(q search.Query) tea.Cmd {
	p.cursor, p.offset = 0, 0
	if p.projection != nil {
		if q.Term == "" {
			return p.wrap(p.projection.Activate(p.favs.Snapshot()))
		}
		return p.wrap(p.projection.Search(q.Seq, q.Term, p.favs.Snapshot()))
	}
	if q.Term == "" {
		if p.browse.Term() == "" {
			// Still browsing; keep the accumulated pages.
			return nil
		}
		p.browse.Reset()
		return p.loadMore()
	}
	return p.wrap(p.browse.Search(q.Seq, q.Term))
}

// toggle flips the favorite flag of entry under this view's capabilities.
func (p *pane) toggle(entry catalog.Entry) bool {
	_, changed := p.favs.Toggle(entry.ID, p.caps)
	return changed
}
