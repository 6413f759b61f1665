package feedview

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed presenter.
var ErrClosed = errors.New("presenter is closed")

// State describes what a list surface should render.
type State int

const (
	// StateLoading means no load has resolved yet.
	StateLoading State = iota
	// StateEmpty means the last successful load returned no items.
	StateEmpty
	// StatePopulated means the last successful load returned items.
	StatePopulated
)

// Loader fetches a fresh snapshot of the list.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Presenter owns the render state for one list surface. Every refresh
// replaces the item slice wholesale, the newest issued refresh wins
// when several resolve out of order, and a failed refresh keeps the
// previous items on screen alongside the error.
type Presenter[T any] struct {
	mu     sync.Mutex
	load   Loader[T]
	items  []T
	state  State
	err    error
	seq    uint64
	closed bool

	// one in-flight mutation per target, extras are rejected
	inflight map[string]struct{}
}

func NewPresenter[T any](load Loader[T]) *Presenter[T] {
	return &Presenter[T]{
		load:     load,
		state:    StateLoading,
		inflight: make(map[string]struct{}),
	}
}

// Refresh fetches a new snapshot and commits it if no newer refresh has
// been issued in the meantime. Stale resolves are discarded silently.
func (p *Presenter[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.seq++
	token := p.seq
	load := p.load
	p.mu.Unlock()

	items, err := load(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || token != p.seq {
		return nil
	}
	if err != nil {
		// keep whatever was on screen
		p.err = err
		return err
	}
	p.err = nil
	p.items = items
	if len(items) == 0 {
		p.state = StateEmpty
	} else {
		p.state = StatePopulated
	}
	return nil
}

// Items returns a copy of the current snapshot.
func (p *Presenter[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Presenter[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error from the most recent refresh, nil after a
// successful one.
func (p *Presenter[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// BeginMutation claims the in-flight slot for one target, such as a
// like toggle on a single roast. It reports false when a mutation for
// that target is already running; the caller should drop the action
// rather than queue it. The returned release func must be called once
// the mutation resolves.
func (p *Presenter[T]) BeginMutation(targetID string) (release func(), ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false
	}
	if _, busy := p.inflight[targetID]; busy {
		return nil, false
	}
	p.inflight[targetID] = struct{}{}
	return func() {
		p.mu.Lock()
		delete(p.inflight, targetID)
		p.mu.Unlock()
	}, true
}

// Update applies fn to the current items in place, for optimistic
// single-item patches between refreshes.
func (p *Presenter[T]) Update(fn func(items []T)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	fn(p.items)
}

// Close discards any refresh still in flight; its result will never be
// committed.
func (p *Presenter[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.inflight = make(map[string]struct{})
}
