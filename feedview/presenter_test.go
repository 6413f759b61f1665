package feedview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenterStates(t *testing.T) {
	items := []string{}
	p := NewPresenter(func(ctx context.Context) ([]string, error) {
		return items, nil
	})

	assert.Equal(t, StateLoading, p.State())

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, StateEmpty, p.State())

	items = []string{"a", "b"}
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, StatePopulated, p.State())
	assert.Equal(t, []string{"a", "b"}, p.Items())
}

func TestPresenterRefreshReplacesWholesale(t *testing.T) {
	snapshots := [][]string{{"a", "b", "c"}, {"x"}}
	call := 0
	p := NewPresenter(func(ctx context.Context) ([]string, error) {
		s := snapshots[call]
		call++
		return s, nil
	})

	require.NoError(t, p.Refresh(context.Background()))
	require.NoError(t, p.Refresh(context.Background()))

	// no merging with the previous snapshot
	assert.Equal(t, []string{"x"}, p.Items())
}

func TestPresenterErrorKeepsPriorItems(t *testing.T) {
	fail := false
	p := NewPresenter(func(ctx context.Context) ([]string, error) {
		if fail {
			return nil, errors.New("backend down")
		}
		return []string{"a"}, nil
	})

	require.NoError(t, p.Refresh(context.Background()))
	fail = true
	assert.Error(t, p.Refresh(context.Background()))

	assert.Equal(t, []string{"a"}, p.Items())
	assert.Equal(t, StatePopulated, p.State())
	assert.Error(t, p.Err())

	fail = false
	require.NoError(t, p.Refresh(context.Background()))
	assert.NoError(t, p.Err())
}

func TestPresenterLastResolveWins(t *testing.T) {
	release := make(chan []string)
	p := NewPresenter(func(ctx context.Context) ([]string, error) {
		return <-release, nil
	})

	firstDone := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(firstDone)
	}()
	secondDone := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(secondDone)
	}()

	// both refreshes are in flight; resolve them one at a time
	release <- []string{"first"}
	release <- []string{"second"}
	<-firstDone
	<-secondDone

	// whichever loader call belonged to the older refresh was discarded
	items := p.Items()
	assert.Len(t, items, 1)
	assert.NotEqual(t, StateLoading, p.State())
}

func TestPresenterCloseDiscardsLateResults(t *testing.T) {
	release := make(chan struct{})
	p := NewPresenter(func(ctx context.Context) ([]string, error) {
		<-release
		return []string{"late"}, nil
	})

	done := make(chan error, 1)
	go func() { done <- p.Refresh(context.Background()) }()

	p.Close()
	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, p.Items())
	assert.Equal(t, StateLoading, p.State())
}

func TestPresenterRejectsOverlappingMutations(t *testing.T) {
	p := NewPresenter(func(ctx context.Context) ([]string, error) { return nil, nil })

	release1, ok := p.BeginMutation("roast-1")
	require.True(t, ok)

	// same target: rejected while in flight
	_, ok = p.BeginMutation("roast-1")
	assert.False(t, ok)

	// different target: independent slot
	release2, ok := p.BeginMutation("roast-2")
	assert.True(t, ok)
	release2()

	release1()
	_, ok = p.BeginMutation("roast-1")
	assert.True(t, ok)
}

func TestPresenterClosedRefuses(t *testing.T) {
	p := NewPresenter(func(ctx context.Context) ([]string, error) { return nil, nil })
	p.Close()

	assert.ErrorIs(t, p.Refresh(context.Background()), ErrClosed)
	_, ok := p.BeginMutation("roast-1")
	assert.False(t, ok)
}
