package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/kv"
)

type fakeFetcher struct {
	mu      sync.Mutex
	entries map[int]catalog.Entry
	failIDs map[int]bool
	byName  []catalog.Entry
	nameErr error
	calls   []string
}

func newFakeFetcher(ids ...int) *fakeFetcher {
	f := &fakeFetcher{entries: make(map[int]catalog.Entry), failIDs: make(map[int]bool)}
	for _, id := range ids {
		f.entries[id] = catalog.Entry{ID: id, Name: fmt.Sprintf("Character %d", id)}
	}
	return f
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	return catalog.Page{}, errors.New("not used")
}

func (f *fakeFetcher) FetchByName(ctx context.Context, term string) ([]catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "name:"+term)
	if f.nameErr != nil {
		return nil, f.nameErr
	}
	return f.byName, nil
}

func (f *fakeFetcher) FetchByID(ctx context.Context, id int) (catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("id:%d", id))
	if f.failIDs[id] {
		return catalog.Entry{}, &catalog.Error{Op: "fetch-by-id", Kind: catalog.ErrNetwork}
	}
	entry, ok := f.entries[id]
	if !ok {
		return catalog.Entry{}, &catalog.Error{Op: "fetch-by-id", Kind: catalog.ErrNotFound, Status: 404}
	}
	return entry, nil
}

// recordingKV wraps a Memory store, records every Put, and can block or fail
// writes on demand.
type recordingKV struct {
	*kv.Memory

	mu       sync.Mutex
	puts     []string
	gate     chan struct{} // when non-nil, Put waits on it
	failPuts int
	getErr   error

	// When getStall is non-nil, Get reads the value, signals getRead, then
	// waits on getStall before returning it.
	getRead  chan struct{}
	getStall chan struct{}
}

func newRecordingKV() *recordingKV {
	return &recordingKV{Memory: kv.NewMemory()}
}

func (r *recordingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	value, err := r.Memory.Get(ctx, key)
	if r.getStall != nil {
		r.getRead <- struct{}{}
		<-r.getStall
	}
	return value, err
}

func (r *recordingKV) Put(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	gate := r.gate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	if r.failPuts > 0 {
		r.failPuts--
		r.mu.Unlock()
		return fmt.Errorf("%w: disk full", kv.ErrStorage)
	}
	r.puts = append(r.puts, string(value))
	r.mu.Unlock()
	return r.Memory.Put(ctx, key, value)
}

func (r *recordingKV) putLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.puts...)
}
