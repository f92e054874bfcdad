package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/browse"
	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/favorites"
	"github.com/five82/dossier/internal/kv"
	"github.com/five82/dossier/internal/overlay"
	"github.com/five82/dossier/internal/prefs"
	"github.com/five82/dossier/internal/search"
)

// Options configures the UI.
type Options struct {
	Context          context.Context
	Fetcher          catalog.Fetcher
	Store            kv.Store
	Logger           *log.Logger
	ThemeName        string
	SearchDebounce   time.Duration
	OverlayAnimation time.Duration

	// Clock drives search debouncing; nil uses the wall clock.
	Clock search.Clock
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx    context.Context
	store  kv.Store
	logger *log.Logger
	keys   keyMap

	// UI state
	theme    Theme
	active   View
	width    int
	height   int
	ready    bool
	showHelp bool
	notice   string

	panes    [2]*pane
	spinner  spinner.Model
	spinning bool
	detail   viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	cfg := paneConfig{
		ctx:       ctx,
		fetcher:   opts.Fetcher,
		store:     opts.Store,
		logger:    logger,
		debounce:  opts.SearchDebounce,
		animation: opts.OverlayAnimation,
		clock:     opts.Clock,
	}

	return Model{
		ctx:    ctx,
		store:  opts.Store,
		logger: logger,
		keys:   DefaultKeyMap(),
		theme:  GetTheme(themeName),
		active: ViewBrowse,
		panes: [2]*pane{
			ViewBrowse:    newPane(ViewBrowse, cfg),
			ViewFavorites: newPane(ViewFavorites, cfg),
		},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		spinning: true,
		detail:   viewport.New(DetailPanelWidth, 10),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	browsePane, favPane := m.panes[ViewBrowse], m.panes[ViewFavorites]
	return tea.Batch(
		browsePane.activate(m.ctx, favPane),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layoutDetail()
		m.current().scroll(m.listRows())
		return m, nil

	case spinner.TickMsg:
		if !m.anyLoading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case paneMsg:
		return m.withSpinner(m.handlePaneMsg(m.panes[msg.view], msg.msg))

	case themeSavedMsg:
		if msg.err != nil {
			m.logger.Printf("ui: save theme: %v", msg.err)
			m.notice = "Could not save theme"
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.current().overlay.Open() {
		return m.renderDetail()
	}

	return m.renderMain()
}

// handleKey processes keyboard input. The search box and an open detail
// panel capture keys before the list does.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	p := m.current()
	m.notice = ""

	if p.input.Focused() {
		return m.handleSearchKey(p, msg)
	}
	if p.overlay.Open() {
		return m.handleDetailKey(p, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, saveThemeCmd(m.ctx, m.store, m.theme.Name)

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		return m.switchTo(1 - m.active)

	case key.Matches(msg, m.keys.ViewBrowse):
		return m.switchTo(ViewBrowse)

	case key.Matches(msg, m.keys.ViewFavorites):
		return m.switchTo(ViewFavorites)

	case key.Matches(msg, m.keys.Search):
		p.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		return m.withSpinner(p.clearSearch())

	case key.Matches(msg, m.keys.Open):
		entry, ok := p.selected()
		if !ok {
			return m, nil
		}
		cmd := p.wrap(p.overlay.Show(entry))
		m.setDetailContent(entry)
		return m, cmd

	case key.Matches(msg, m.keys.ToggleFavorite):
		if entry, ok := p.selected(); ok {
			m.toggleFavorite(p, entry)
		}
		return m, nil

	case key.Matches(msg, m.keys.LoadMore):
		return m.withSpinner(p.loadMore())

	case key.Matches(msg, m.keys.Retry):
		return m.withSpinner(m.reload(p))

	case key.Matches(msg, m.keys.Up):
		p.move(-1)
	case key.Matches(msg, m.keys.Down):
		p.move(1)
	case key.Matches(msg, m.keys.Top):
		p.move(-len(p.entries()))
	case key.Matches(msg, m.keys.Bottom):
		p.move(len(p.entries()))
	case key.Matches(msg, m.keys.PageUp):
		p.move(-m.listRows())
	case key.Matches(msg, m.keys.PageDown):
		p.move(m.listRows())
	default:
		return m, nil
	}

	p.scroll(m.listRows())
	if p.nearEnd() {
		return m.withSpinner(p.loadMore())
	}
	return m, nil
}

// handleSearchKey edits the search box. Every change restarts the quiet
// period; enter keeps the term and returns focus to the list.
func (m Model) handleSearchKey(p *pane, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		return m.withSpinner(p.clearSearch())
	case key.Matches(msg, m.keys.Confirm):
		p.input.Blur()
		return m, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, p.typed())
}

// handleDetailKey routes input while the detail panel is open. Keys that do
// not apply to the panel are swallowed so the list underneath stays put.
func (m Model) handleDetailKey(p *pane, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case p.overlay.State().Status == overlay.Hiding && key.Matches(msg, m.keys.Open):
		// Reopening the closing entry keeps it mounted.
		if entry, ok := p.overlay.Selected(); ok {
			return m, p.wrap(p.overlay.Show(entry))
		}
		return m, nil
	case key.Matches(msg, m.keys.Close):
		return m, p.wrap(p.overlay.Close())
	case key.Matches(msg, m.keys.ToggleFavorite):
		if entry, ok := p.overlay.Selected(); ok {
			m.toggleFavorite(p, entry)
			m.setDetailContent(entry)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// handlePaneMsg applies a command result to the pane that issued it.
func (m *Model) handlePaneMsg(p *pane, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case activatedMsg:
		if p.projection != nil {
			p.input.SetValue("")
			p.debounce.Cancel()
			p.cursor, p.offset = 0, 0
			return p.wrap(p.projection.Activate(msg.favs))
		}
		if p.browse.Term() == "" && p.browse.Len() == 0 {
			return p.loadMore()
		}
		return nil

	case search.QuietMsg:
		q, ok := p.debounce.Expire(msg)
		if !ok {
			return nil
		}
		return p.query(q)

	case browse.PageMsg:
		if p.browse.HandlePage(msg) {
			p.settle(m.listRows())
		}
		return nil

	case browse.SearchMsg:
		if !p.debounce.Accept(msg.Seq) {
			return nil
		}
		if p.browse.ApplySearch(msg.Term, msg.Entries, msg.Err) {
			p.settle(m.listRows())
		}
		return nil

	case favorites.ProjectionMsg:
		if msg.Seq != 0 && !p.debounce.Accept(msg.Seq) {
			return nil
		}
		if p.projection.Handle(msg) {
			p.settle(m.listRows())
		}
		return nil

	case overlay.FrameMsg:
		p.overlay.Handle(msg)
		return nil
	}
	return nil
}

// switchTo makes view active and refreshes its favorites copy.
func (m Model) switchTo(view View) (tea.Model, tea.Cmd) {
	if view == m.active {
		return m, nil
	}
	prev := m.current()
	if prev.projection != nil {
		prev.debounce.Cancel()
		prev.projection.Invalidate()
	}
	m.active = view
	next := m.current()
	next.scroll(m.listRows())
	return m.withSpinner(next.activate(m.ctx, prev))
}

// reload restarts the current view's list from scratch.
func (m *Model) reload(p *pane) tea.Cmd {
	if p.projection != nil {
		p.cursor, p.offset = 0, 0
		if term := strings.TrimSpace(p.input.Value()); term != "" {
			return p.typed()
		}
		return p.wrap(p.projection.Activate(p.favs.Snapshot()))
	}
	if p.browse.Term() != "" {
		return p.typed()
	}
	if p.browse.View().Phase == browse.Idle && p.browse.View().Err != nil {
		// Retry the page that failed without discarding what is loaded.
		return p.loadMore()
	}
	p.cursor, p.offset = 0, 0
	p.browse.Reset()
	return p.loadMore()
}

func (m *Model) toggleFavorite(p *pane, entry catalog.Entry) {
	if p.toggle(entry) {
		return
	}
	m.notice = fmt.Sprintf("%s stays a favorite here; remove it from Browse", entry.Name)
}

// withSpinner returns the model with cmd, starting the spinner if cmd
// began a load.
func (m Model) withSpinner(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	spin := m.ensureSpinner()
	return m, tea.Batch(cmd, spin)
}

// ensureSpinner restarts the spinner when something started loading.
func (m *Model) ensureSpinner() tea.Cmd {
	if m.spinning || !m.anyLoading() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m Model) anyLoading() bool {
	for _, p := range m.panes {
		if p.loading() {
			return true
		}
	}
	return false
}

func (m Model) current() *pane {
	return m.panes[m.active]
}

// listRows is the number of list rows that fit on screen.
func (m Model) listRows() int {
	rows := m.height - chromeLines
	if rows < 1 {
		return 1
	}
	return rows
}

// Messages

type themeSavedMsg struct {
	err error
}

// Commands

func saveThemeCmd(ctx context.Context, store kv.Store, name string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return themeSavedMsg{err: prefs.Save(ctx, store, prefs.Prefs{Theme: name})}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Flush(context.Background())
	}
	return err
}

// Flush waits for both views' pending favorites writes.
func (m Model) Flush(ctx context.Context) {
	for _, p := range m.panes {
		if err := p.favs.Flush(ctx); err != nil {
			m.logger.Printf("ui: favorites not saved: %v", err)
		}
	}
}
