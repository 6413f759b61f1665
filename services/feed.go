package services

import (
	"seefinish-platform/models"

	"gorm.io/gorm"
)

// Shared feed plumbing: the derived-count aggregator and the viewer-state
// augmenter used by both the roast and debate feeds. Counts are recomputed
// from scratch on every refresh — no incremental updates.

// likeCounts fetches all likes whose target is in ids and reduces them to
// a per-target count. An empty id set short-circuits without a query.
func likeCounts(db *gorm.DB, kind string, ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	var likes []models.Like
	if err := db.Where("target_kind = ? AND target_id IN ?", kind, ids).Find(&likes).Error; err != nil {
		return nil, err
	}
	return ReduceLikeCounts(likes), nil
}

// participantCounts fetches all participant rows for the given debates and
// reduces them to a per-debate count. Empty id set issues no query.
func participantCounts(db *gorm.DB, debateIDs []string) (map[string]int, error) {
	if len(debateIDs) == 0 {
		return map[string]int{}, nil
	}
	var participants []models.DebateParticipant
	if err := db.Where("debate_id IN ?", debateIDs).Find(&participants).Error; err != nil {
		return nil, err
	}
	return ReduceParticipantCounts(participants), nil
}

// viewerLikedSet returns the subset of ids the viewer has liked. A nil
// viewer or empty id set returns an empty set without touching the
// database. The set decides which affordance to render; the count
// aggregator stays the source of truth for numbers.
func viewerLikedSet(db *gorm.DB, viewer *models.Viewer, kind string, ids []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if viewer == nil || len(ids) == 0 {
		return liked, nil
	}
	var likes []models.Like
	if err := db.Where("user_id = ? AND target_kind = ? AND target_id IN ?", viewer.UserID, kind, ids).
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		liked[l.TargetID] = true
	}
	return liked, nil
}

// ReduceLikeCounts folds child like rows into a target-id → count mapping.
// Keys are always a subset of the ids the rows reference; absent ids read
// as zero on the consumer side.
func ReduceLikeCounts(likes []models.Like) map[string]int {
	counts := make(map[string]int)
	for _, l := range likes {
		counts[l.TargetID]++
	}
	return counts
}

// ReduceParticipantCounts folds participant rows into a debate-id → count
// mapping.
func ReduceParticipantCounts(participants []models.DebateParticipant) map[string]int {
	counts := make(map[string]int)
	for _, p := range participants {
		counts[p.DebateID]++
	}
	return counts
}
