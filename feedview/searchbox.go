package feedview

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"
)

// MinQueryLength is the shortest query that triggers a search. Anything
// shorter clears the results without touching the backend.
const MinQueryLength = 2

// DefaultDebounce is how long the box waits after the last keystroke
// before firing.
const DefaultDebounce = 300 * time.Millisecond

// Searcher executes one query against the backend.
type Searcher[R any] func(ctx context.Context, query string) ([]R, error)

// SearchBox debounces keystrokes into backend queries. Only the newest
// query's results are ever delivered; anything that resolves after a
// newer keystroke is dropped.
type SearchBox[R any] struct {
	mu     sync.Mutex
	search Searcher[R]
	delay  time.Duration
	onRes  func(results []R, err error)

	timer  *time.Timer
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewSearchBox builds a box that calls onResults with each delivered
// result set. A zero delay uses DefaultDebounce.
func NewSearchBox[R any](search Searcher[R], delay time.Duration, onResults func(results []R, err error)) *SearchBox[R] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchBox[R]{
		search: search,
		delay:  delay,
		onRes:  onResults,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetQuery records a keystroke. Queries under MinQueryLength cancel any
// pending search and deliver an empty result set immediately.
func (b *SearchBox[R]) SetQuery(query string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.seq++
	token := b.seq

	if utf8.RuneCountInString(query) < MinQueryLength {
		onRes := b.onRes
		b.mu.Unlock()
		if onRes != nil {
			onRes(nil, nil)
		}
		return
	}

	b.timer = time.AfterFunc(b.delay, func() {
		b.fire(token, query)
	})
	b.mu.Unlock()
}

func (b *SearchBox[R]) fire(token uint64, query string) {
	b.mu.Lock()
	if b.closed || token != b.seq {
		b.mu.Unlock()
		return
	}
	ctx := b.ctx
	b.mu.Unlock()

	results, err := b.search(ctx, query)

	b.mu.Lock()
	if b.closed || token != b.seq {
		b.mu.Unlock()
		return
	}
	onRes := b.onRes
	b.mu.Unlock()
	if onRes != nil {
		onRes(results, err)
	}
}

// Close stops the pending timer and cancels any query in flight.
func (b *SearchBox[R]) Close() {
	b.mu.Lock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	cancel := b.cancel
	b.mu.Unlock()
	cancel()
}
