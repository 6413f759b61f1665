package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"seefinish-platform/models"
)

func strPtr(s string) *string { return &s }

func TestNormalizeResultsOrderAndBadges(t *testing.T) {
	profiles := []models.Profile{
		{UserID: "u1", Username: "pineapple_hater", DisplayName: strPtr("Pineapple Hater"), Rank: "Challenger", XPPoints: 750},
	}
	roasts := []models.Roast{
		{ID: "r1", Content: "pineapple on pizza is a crime", LikesCount: 12, Author: &models.Profile{Username: "chef"}},
	}
	debates := []models.Debate{
		{ID: "d1", Title: "Pineapple pizza: valid?", Status: models.DebateStatusLive, Organizer: &models.Profile{Username: "mod"}},
	}

	results := NormalizeResults(profiles, roasts, debates)
	assert.Len(t, results, 3)

	// buckets keep a fixed order: users, roasts, debates
	assert.Equal(t, "user", results[0].Type)
	assert.Equal(t, "roast", results[1].Type)
	assert.Equal(t, "debate", results[2].Type)

	assert.Equal(t, "Pineapple Hater", results[0].Title)
	assert.Equal(t, "@pineapple_hater", results[0].Subtitle)
	assert.Equal(t, []string{"Challenger", "750 XP"}, results[0].Badges)

	assert.Equal(t, "by @chef • 12 likes", results[1].Subtitle)
	assert.Equal(t, []string{"Roast"}, results[1].Badges)

	assert.Equal(t, []string{models.DebateStatusLive}, results[2].Badges)
}

func TestNormalizeResultsFallsBackToUsername(t *testing.T) {
	profiles := []models.Profile{{UserID: "u2", Username: "quietone", Rank: "Rookie"}}
	results := NormalizeResults(profiles, nil, nil)
	assert.Equal(t, "quietone", results[0].Title)
}

func TestNormalizeResultsTruncatesLongRoasts(t *testing.T) {
	long := strings.Repeat("é", 80)
	roasts := []models.Roast{{ID: "r1", Content: long}}
	results := NormalizeResults(nil, roasts, nil)
	assert.Equal(t, strings.Repeat("é", 60)+"...", results[0].Title)
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"under limit", "short", 60, "short"},
		{"exactly limit", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{"over limit", strings.Repeat("a", 61), 60, strings.Repeat("a", 60) + "..."},
		{"multibyte runes", "ééééé", 3, "ééé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateTitle(tt.in, tt.limit))
		})
	}
}

func TestSearchShortCircuitsShortQueries(t *testing.T) {
	// nil DB: any issued query would panic
	svc := NewSearchService(nil)
	for _, q := range []string{"", "p", "é"} {
		results, err := svc.Search(context.Background(), q)
		assert.NoError(t, err)
		assert.Empty(t, results)
	}
}
