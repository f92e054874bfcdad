// Package browse implements the pagination controller behind the catalog
// view: an Idle/Loading/Exhausted state machine that accumulates pages, and
// a search mode that replaces pagination with a single result set.
package browse

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/catalog"
)

// Phase is the pagination state.
type Phase int

const (
	Idle Phase = iota
	Loading
	Exhausted
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Exhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// PageMsg carries a page fetch result, tagged with the generation and cursor
// it was issued for.
type PageMsg struct {
	Gen    uint64
	Cursor int
	Page   catalog.Page
	Err    error
}

// SearchMsg carries a name query result, tagged with the debouncer sequence
// number of the query.
type SearchMsg struct {
	Seq     uint64
	Term    string
	Entries []catalog.Entry
	Err     error
}

// State is the read-only render model of the controller.
type State struct {
	Entries []catalog.Entry
	Phase   Phase
	Cursor  int
	HasMore bool
	Loading bool
	Term    string // empty in browse mode
	Total   int    // catalog size reported by the last page, if known
	Err     error
}

// Controller owns the accumulated list for the catalog view.
type Controller struct {
	ctx     context.Context
	fetcher catalog.Fetcher
	logger  *log.Logger

	gen     uint64
	entries []catalog.Entry
	cursor  int
	hasMore bool
	loading bool
	term    string
	total   int
	err     error
}

// New returns a controller positioned before page 1.
func New(ctx context.Context, f catalog.Fetcher, logger *log.Logger) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{ctx: ctx, fetcher: f, logger: logger}
	c.Reset()
	return c
}

// Phase derives the pagination state.
func (c *Controller) Phase() Phase {
	switch {
	case c.loading:
		return Loading
	case !c.hasMore:
		return Exhausted
	default:
		return Idle
	}
}

// RequestMore fetches the page at the cursor. It returns nil, and fetches
// nothing, unless the controller is Idle in browse mode.
func (c *Controller) RequestMore() tea.Cmd {
	if c.term != "" || c.Phase() != Idle {
		return nil
	}
	c.loading = true
	gen, cursor, ctx, f := c.gen, c.cursor, c.ctx, c.fetcher
	return func() tea.Msg {
		page, err := f.FetchPage(ctx, cursor)
		return PageMsg{Gen: gen, Cursor: cursor, Page: page, Err: err}
	}
}

// HandlePage folds a page response into the list. Responses that do not
// answer the outstanding request are ignored and false is returned.
func (c *Controller) HandlePage(msg PageMsg) bool {
	if !c.loading || c.term != "" || msg.Gen != c.gen || msg.Cursor != c.cursor {
		return false
	}
	c.loading = false
	if msg.Err != nil {
		c.err = msg.Err
		c.logger.Printf("browse: page %d failed: %v", msg.Cursor, msg.Err)
		return true
	}
	c.err = nil
	c.entries = append(c.entries, msg.Page.Entries...)
	c.cursor++
	c.hasMore = msg.Page.HasMore
	c.total = msg.Page.Count
	return true
}

// Reset returns to browse mode before page 1. Any in-flight response is
// invalidated.
func (c *Controller) Reset() {
	c.gen++
	c.entries = nil
	c.cursor = 1
	c.hasMore = true
	c.loading = false
	c.term = ""
	c.err = nil
}

// BeginSearch switches to search mode for term. Pagination is bypassed until
// the next Reset, and any in-flight page response is invalidated.
func (c *Controller) BeginSearch(term string) {
	c.gen++
	c.entries = nil
	c.term = term
	c.hasMore = false
	c.loading = true
	c.err = nil
}

// Search enters search mode for term and returns the command issuing the
// name query. seq is echoed back in the SearchMsg.
func (c *Controller) Search(seq uint64, term string) tea.Cmd {
	c.BeginSearch(term)
	ctx, f := c.ctx, c.fetcher
	return func() tea.Msg {
		entries, err := f.FetchByName(ctx, term)
		return SearchMsg{Seq: seq, Term: term, Entries: entries, Err: err}
	}
}

// ApplySearch replaces the list with a search result set. A failure leaves
// the list empty. Results for a term other than the active one are ignored.
func (c *Controller) ApplySearch(term string, entries []catalog.Entry, err error) bool {
	if c.term == "" || term != c.term {
		return false
	}
	c.loading = false
	c.err = err
	if err != nil {
		c.logger.Printf("browse: search %q failed: %v", term, err)
		c.entries = nil
		return true
	}
	c.entries = entries
	return true
}

// Find returns the displayed entry with id.
func (c *Controller) Find(id int) (catalog.Entry, bool) {
	for _, entry := range c.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return catalog.Entry{}, false
}

// View returns the render model.
func (c *Controller) View() State {
	entries := make([]catalog.Entry, len(c.entries))
	copy(entries, c.entries)
	return State{
		Entries: entries,
		Phase:   c.Phase(),
		Cursor:  c.cursor,
		HasMore: c.hasMore,
		Loading: c.loading,
		Term:    c.term,
		Total:   c.total,
		Err:     c.err,
	}
}

// Len returns the number of displayed entries.
func (c *Controller) Len() int { return len(c.entries) }

// Term returns the active search term.
func (c *Controller) Term() string { return c.term }
