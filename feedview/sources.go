package feedview

import (
	"context"
	"time"

	"seefinish-platform/models"
	"seefinish-platform/services"
)

// RoastFeedLoader binds a presenter to the roast feed for one viewer.
func RoastFeedLoader(svc *services.RoastService, viewer *models.Viewer, limit int) Loader[services.RoastFeedItem] {
	return func(ctx context.Context) ([]services.RoastFeedItem, error) {
		return svc.FetchFeed(viewer, limit)
	}
}

// DebateFeedLoader binds a presenter to the debate feed for one viewer.
func DebateFeedLoader(svc *services.DebateService, viewer *models.Viewer, limit int) Loader[services.DebateFeedItem] {
	return func(ctx context.Context) ([]services.DebateFeedItem, error) {
		return svc.FetchFeed(viewer, limit)
	}
}

// NewSearch wires a debounced box to the cross-entity search service.
func NewSearch(svc *services.SearchService, delay time.Duration, onResults func([]services.SearchResult, error)) *SearchBox[services.SearchResult] {
	return NewSearchBox(svc.Search, delay, onResults)
}
