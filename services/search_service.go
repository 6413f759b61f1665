package services

import (
	"context"
	"fmt"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// MinSearchLength: shorter queries return an empty result list and issue
// zero queries.
const MinSearchLength = 2

const searchBucketLimit = 5
const roastTitleLimit = 60

// SearchResult is the normalized shape all three buckets collapse into.
type SearchResult struct {
	Type     string   `json:"type"` // user | roast | debate
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Avatar   *string  `json:"avatar,omitempty"`
	Badges   []string `json:"badges,omitempty"`
}

type SearchService struct {
	DB *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{DB: db}
}

// Search fans the query out to profiles, roasts and debates in parallel
// and concatenates the normalized buckets in that fixed order. There is no
// relevance ranking across buckets; within a bucket, rows keep query
// arrival order.
func (s *SearchService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if len([]rune(query)) < MinSearchLength {
		return []SearchResult{}, nil
	}

	pattern := "%" + query + "%"

	var profiles []models.Profile
	var roasts []models.Roast
	var debates []models.Debate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.DB.WithContext(gctx).
			Where("username ILIKE ? OR display_name ILIKE ?", pattern, pattern).
			Limit(searchBucketLimit).
			Find(&profiles).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Preload("Author").
			Where("content ILIKE ?", pattern).
			Limit(searchBucketLimit).
			Find(&roasts).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Preload("Organizer").
			Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
			Limit(searchBucketLimit).
			Find(&debates).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NormalizeResults(profiles, roasts, debates), nil
}

// NormalizeResults collapses the three heterogeneous buckets into the
// common result shape, users first, then roasts, then debates.
func NormalizeResults(profiles []models.Profile, roasts []models.Roast, debates []models.Debate) []SearchResult {
	results := make([]SearchResult, 0, len(profiles)+len(roasts)+len(debates))

	for _, p := range profiles {
		title := p.Username
		if p.DisplayName != nil && *p.DisplayName != "" {
			title = *p.DisplayName
		}
		results = append(results, SearchResult{
			Type:     "user",
			ID:       p.UserID,
			Title:    title,
			Subtitle: "@" + p.Username,
			Avatar:   p.AvatarURL,
			Badges:   []string{p.Rank, fmt.Sprintf("%d XP", p.XPPoints)},
		})
	}

	for _, r := range roasts {
		author := ""
		if r.Author != nil {
			author = r.Author.Username
		}
		results = append(results, SearchResult{
			Type:     "roast",
			ID:       r.ID,
			Title:    TruncateTitle(r.Content, roastTitleLimit),
			Subtitle: fmt.Sprintf("by @%s • %d likes", author, r.LikesCount),
			Badges:   []string{"Roast"},
		})
	}

	for _, d := range debates {
		organizer := ""
		if d.Organizer != nil {
			organizer = d.Organizer.Username
		}
		results = append(results, SearchResult{
			Type:     "debate",
			ID:       d.ID,
			Title:    d.Title,
			Subtitle: "by @" + organizer,
			Badges:   []string{d.Status},
		})
	}

	return results
}

// TruncateTitle cuts a string at limit runes, appending an ellipsis when
// anything was dropped.
func TruncateTitle(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// ===== Fiber handler =====

// SearchAll serves the search box. Sub-minimum queries come back as an
// empty list without touching the database.
func (s *SearchService) SearchAll(c *fiber.Ctx) error {
	results, err := s.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return preconditionError(c, err, "search failed")
	}
	return c.JSON(results)
}
