package favorites

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/dossier/internal/catalog"
)

// resolveParallelism bounds concurrent by-id fetches during Resolve.
const resolveParallelism = 6

// Resolve fetches the current data of every favorite in m, in id order.
// Ids that fail to resolve are logged and omitted.
func Resolve(ctx context.Context, f catalog.Fetcher, m Map, logger *log.Logger) []catalog.Entry {
	if logger == nil {
		logger = log.Default()
	}
	ids := m.IDs()
	results := make([]*catalog.Entry, len(ids))

	var g errgroup.Group
	g.SetLimit(resolveParallelism)
	for i, id := range ids {
		g.Go(func() error {
			entry, err := f.FetchByID(ctx, id)
			if err != nil {
				logger.Printf("favorites: drop id %d: %v", id, err)
				return nil
			}
			results[i] = &entry
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]catalog.Entry, 0, len(ids))
	for _, entry := range results {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries
}

// SearchFavorites queries the catalog by name and keeps only favorited
// entries. It deliberately searches the remote catalog rather than the
// resolved favorites so results always carry fresh data.
func SearchFavorites(ctx context.Context, f catalog.Fetcher, term string, m Map) ([]catalog.Entry, error) {
	found, err := f.FetchByName(ctx, term)
	if err != nil {
		return nil, err
	}
	entries := make([]catalog.Entry, 0, len(found))
	for _, entry := range found {
		if m.Has(entry.ID) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ProjectionMsg carries a projection result back into the update loop.
type ProjectionMsg struct {
	Gen     uint64
	Seq     uint64 // search sequence; zero for a plain resolve
	Term    string
	Entries []catalog.Entry
	Err     error
}

// Projection derives the favorites view list. Every request bumps the
// generation, and only the response of the newest generation is applied.
type Projection struct {
	ctx     context.Context
	fetcher catalog.Fetcher
	logger  *log.Logger

	gen     uint64
	term    string
	entries []catalog.Entry
	loading bool
	err     error
}

// NewProjection returns an empty projection.
func NewProjection(ctx context.Context, f catalog.Fetcher, logger *log.Logger) *Projection {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Projection{ctx: ctx, fetcher: f, logger: logger}
}

// Activate resolves every favorite in m.
func (p *Projection) Activate(m Map) tea.Cmd {
	p.gen++
	p.term = ""
	p.loading = true
	gen, ctx, f, logger := p.gen, p.ctx, p.fetcher, p.logger
	ids := m.Clone()
	return func() tea.Msg {
		return ProjectionMsg{Gen: gen, Entries: Resolve(ctx, f, ids, logger)}
	}
}

// Search runs a name query filtered to the favorites in m.
func (p *Projection) Search(seq uint64, term string, m Map) tea.Cmd {
	p.gen++
	p.term = term
	p.loading = true
	gen, ctx, f := p.gen, p.ctx, p.fetcher
	ids := m.Clone()
	return func() tea.Msg {
		entries, err := SearchFavorites(ctx, f, term, ids)
		return ProjectionMsg{Gen: gen, Seq: seq, Term: term, Entries: entries, Err: err}
	}
}

// Handle applies msg when it answers the newest request.
func (p *Projection) Handle(msg ProjectionMsg) bool {
	if msg.Gen != p.gen {
		return false
	}
	p.loading = false
	p.err = msg.Err
	if msg.Err != nil {
		p.logger.Printf("favorites: search %q failed: %v", msg.Term, msg.Err)
		p.entries = nil
		return true
	}
	p.entries = msg.Entries
	return true
}

// Invalidate drops any outstanding response, e.g. when the view deactivates.
func (p *Projection) Invalidate() {
	p.gen++
	p.loading = false
}

// Entries returns the displayed list.
func (p *Projection) Entries() []catalog.Entry { return p.entries }

// Loading reports whether a request is outstanding.
func (p *Projection) Loading() bool { return p.loading }

// Term returns the active search term, empty when showing all favorites.
func (p *Projection) Term() string { return p.term }

// Err returns the last failure, if any.
func (p *Projection) Err() error { return p.err }
