package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seefinish-platform/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return gdb, mock
}

func TestReduceLikeCounts(t *testing.T) {
	likes := []models.Like{
		{TargetID: "a"},
		{TargetID: "a"},
		{TargetID: "b"},
	}
	counts := ReduceLikeCounts(likes)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
}

func TestReduceLikeCountsEmpty(t *testing.T) {
	counts := ReduceLikeCounts(nil)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestReduceParticipantCounts(t *testing.T) {
	participants := []models.DebateParticipant{
		{DebateID: "d1"},
		{DebateID: "d1"},
		{DebateID: "d1"},
		{DebateID: "d2"},
	}
	counts := ReduceParticipantCounts(participants)
	assert.Equal(t, map[string]int{"d1": 3, "d2": 1}, counts)
}

// A nil viewer must resolve without touching the database at all; a nil
// handle would panic on any query.
func TestViewerLikedSetUnauthenticated(t *testing.T) {
	liked, err := viewerLikedSet(nil, nil, models.TargetRoast, []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestAggregatorsShortCircuitEmptyIDs(t *testing.T) {
	counts, err := likeCounts(nil, models.TargetRoast, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)

	pcounts, err := participantCounts(nil, []string{})
	require.NoError(t, err)
	assert.Empty(t, pcounts)
}

func TestViewerLikedSetQueriesOnlyViewerRows(t *testing.T) {
	gdb, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "target_kind", "target_id"}).
		AddRow("l1", "u1", models.TargetRoast, "a").
		AddRow("l2", "u1", models.TargetRoast, "c")
	mock.ExpectQuery(`SELECT \* FROM "likes"`).
		WithArgs("u1", models.TargetRoast, "a", "b", "c").
		WillReturnRows(rows)

	viewer := &models.Viewer{UserID: "u1", Username: "one"}
	liked, err := viewerLikedSet(gdb, viewer, models.TargetRoast, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"a": true, "c": true}, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
