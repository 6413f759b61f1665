package feedview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects delivered result sets so tests can assert on what
// actually reached the rendering side.
type recorder struct {
	mu       sync.Mutex
	delivery chan []string
	queries  []string
}

func newRecorder() *recorder {
	return &recorder{delivery: make(chan []string, 8)}
}

func (r *recorder) search(ctx context.Context, query string) ([]string, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return []string{"result for " + query}, nil
}

func (r *recorder) onResults(results []string, err error) {
	r.delivery <- results
}

func (r *recorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

func TestSearchBoxDebouncesKeystrokes(t *testing.T) {
	rec := newRecorder()
	box := NewSearchBox(rec.search, 30*time.Millisecond, rec.onResults)
	defer box.Close()

	// "r" is under the minimum and clears immediately
	box.SetQuery("r")
	assert.Empty(t, <-rec.delivery)

	// rapid keystrokes within the debounce window
	box.SetQuery("ro")
	box.SetQuery("roa")

	select {
	case results := <-rec.delivery:
		assert.Equal(t, []string{"result for roa"}, results)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never fired")
	}

	// only the final keystroke reached the backend
	assert.Equal(t, []string{"roa"}, rec.recorded())
}

func TestSearchBoxShortQueryIssuesNoSearch(t *testing.T) {
	rec := newRecorder()
	box := NewSearchBox(rec.search, 10*time.Millisecond, rec.onResults)
	defer box.Close()

	for _, q := range []string{"", "a", "é"} {
		box.SetQuery(q)
		assert.Empty(t, <-rec.delivery)
	}

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.recorded())
}

func TestSearchBoxShortQueryCancelsPending(t *testing.T) {
	rec := newRecorder()
	box := NewSearchBox(rec.search, 30*time.Millisecond, rec.onResults)
	defer box.Close()

	box.SetQuery("ro")
	// clearing the field before the debounce elapses kills the search
	box.SetQuery("")
	assert.Empty(t, <-rec.delivery)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.recorded())
}

func TestSearchBoxDropsStaleResults(t *testing.T) {
	block := make(chan struct{})
	delivered := make(chan []string, 8)

	var mu sync.Mutex
	calls := 0
	search := func(ctx context.Context, query string) ([]string, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-block // the slow, soon-stale query
		}
		return []string{query}, nil
	}

	box := NewSearchBox(search, 5*time.Millisecond, func(results []string, err error) {
		delivered <- results
	})
	defer box.Close()

	box.SetQuery("slow")
	// wait for the first query to be in flight
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, 2*time.Second, time.Millisecond)

	box.SetQuery("fast")
	assert.Equal(t, []string{"fast"}, <-delivered)

	// let the stale query resolve; its results must never be delivered
	close(block)
	select {
	case results := <-delivered:
		t.Fatalf("stale results delivered: %v", results)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSearchBoxClosedIgnoresInput(t *testing.T) {
	rec := newRecorder()
	box := NewSearchBox(rec.search, 5*time.Millisecond, rec.onResults)
	box.Close()

	box.SetQuery("roast")
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.recorded())
	assert.Empty(t, rec.delivery)
}
