package favorites

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/five82/dossier/internal/kv"
)

// DefaultKey is the storage key holding the serialized favorites.
const DefaultKey = "favorites"

// Capabilities describe what a rendering context may do to the favorites set.
type Capabilities struct {
	AllowUnfavorite bool
}

var (
	// BrowseCapabilities lets the catalog view clear a favorite.
	BrowseCapabilities = Capabilities{AllowUnfavorite: true}
	// FavoritesCapabilities keeps existing favorites fixed in the favorites view.
	FavoritesCapabilities = Capabilities{AllowUnfavorite: false}
)

// Store is one view's in-memory copy of the favorites set, mirrored to kv.
//
// Mutations are applied immediately and persisted by a single background
// writer. The writer serializes the map as it is when the write runs and
// keeps writing while mutations arrive, so a burst of toggles ends with the
// final state stored and never with an older snapshot.
type Store struct {
	kv     kv.Store
	key    string
	logger *log.Logger
	ctx    context.Context

	mu      sync.Mutex
	favs    Map
	dirty   bool
	done    chan struct{} // non-nil while the writer runs
	lastErr error

	loads   int      // Load calls between their read and their swap
	journal []change // mutations made while a Load was reading
}

type change struct {
	id    int
	value bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for load and persist warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithContext sets the context background writes run under. Cancellation
// is ignored so a shutdown flush still stores the final state.
func WithContext(ctx context.Context) Option {
	return func(s *Store) { s.ctx = ctx }
}

// NewStore returns an empty Store backed by store.
func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		key:    DefaultKey,
		logger: log.Default(),
		ctx:    context.Background(),
		favs:   Map{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx = context.WithoutCancel(s.ctx)
	return s
}

// Load replaces the in-memory copy with the stored favorites. Missing,
// unreadable or malformed data yields an empty set; it never fails.
// Mutations made while the read is in progress are replayed on top of the
// loaded set.
func (s *Store) Load(ctx context.Context) Map {
	// Our own pending write is newer than what storage holds.
	_ = s.Flush(ctx)

	s.mu.Lock()
	s.loads++
	s.mu.Unlock()

	loaded := Map{}
	data, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		s.logger.Printf("favorites: load failed, using empty set: %v", err)
	default:
		m, derr := decode(data)
		if derr != nil {
			s.logger.Printf("favorites: stored data malformed, using empty set: %v", derr)
		} else {
			loaded = m
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads--
	replayed := len(s.journal) > 0
	for _, c := range s.journal {
		if c.value {
			loaded[c.id] = true
		} else {
			delete(loaded, c.id)
		}
	}
	if s.loads == 0 {
		s.journal = nil
	}
	s.favs = loaded
	if replayed {
		s.dirty = true
		s.startWriterLocked()
	}
	return loaded.Clone()
}

// Snapshot returns a copy of the in-memory favorites.
func (s *Store) Snapshot() Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Clone()
}

// IsFavorite reports whether id is currently favorited in this copy.
func (s *Store) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Has(id)
}

// SetFavorite updates id and schedules a persist.
func (s *Store) SetFavorite(id int, value bool) Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(id, value)
	return s.favs.Clone()
}

// Toggle flips id unless caps forbid clearing an existing favorite, in which
// case nothing changes and false is returned.
func (s *Store) Toggle(id int, caps Capabilities) (Map, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.favs.Has(id)
	if current && !caps.AllowUnfavorite {
		return s.favs.Clone(), false
	}
	s.setLocked(id, !current)
	return s.favs.Clone(), true
}

// Persist schedules a write of the current map without waiting for it.
func (s *Store) Persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
	s.startWriterLocked()
}

// Flush waits for the background writer to go idle and returns the error of
// the last completed write.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) setLocked(id int, value bool) {
	if s.loads > 0 {
		s.journal = append(s.journal, change{id: id, value: value})
	}
	if value {
		s.favs[id] = true
	} else {
		delete(s.favs, id)
	}
	s.dirty = true
	s.startWriterLocked()
}

func (s *Store) startWriterLocked() {
	if s.done != nil {
		return
	}
	done := make(chan struct{})
	s.done = done
	go s.writeLoop(done)
}

func (s *Store) writeLoop(done chan struct{}) {
	defer close(done)
	for {
		s.mu.Lock()
		if !s.dirty {
			s.done = nil
			s.mu.Unlock()
			return
		}
		payload, err := s.favs.encode()
		s.dirty = false
		s.mu.Unlock()

		if err == nil {
			err = s.kv.Put(s.ctx, s.key, payload)
		}

		s.mu.Lock()
		s.lastErr = err
		if err != nil {
			// Left for the next mutation to retry.
			s.dirty = true
			s.done = nil
			s.mu.Unlock()
			s.logger.Printf("favorites: persist failed: %v", err)
			return
		}
		s.mu.Unlock()
	}
}
