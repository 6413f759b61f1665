package services

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seefinish-platform/models"
)

// Precondition gates run before any query; a nil DB would panic if one
// slipped through.
func TestCreateRoastGates(t *testing.T) {
	svc := NewRoastService(nil)
	viewer := &models.Viewer{UserID: "u1", Username: "one"}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := svc.Create(nil, "hello", nil, nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.Create(viewer, "", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("whitespace-only content", func(t *testing.T) {
		_, err := svc.Create(viewer, "   \n\t ", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("content over 280 runes", func(t *testing.T) {
		_, err := svc.Create(viewer, strings.Repeat("é", 281), nil, nil)
		assert.ErrorIs(t, err, ErrContentTooLong)
	})

	t.Run("280 multibyte runes pass the length gate", func(t *testing.T) {
		// reaches the insert, which panics on the nil DB — the gate let it through
		assert.Panics(t, func() {
			svc.Create(viewer, strings.Repeat("é", 280), nil, nil)
		})
	})
}

func TestSetLikeGates(t *testing.T) {
	svc := NewRoastService(nil)

	_, err := svc.SetLike(nil, models.LikeTarget{Kind: models.TargetRoast, ID: "r1"}, true)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	viewer := &models.Viewer{UserID: "u1", Username: "one"}
	_, err = svc.SetLike(viewer, models.LikeTarget{Kind: "comment", ID: "c1"}, true)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

// Posting a comment earns the commenter XP alongside the count recompute.
func TestAddCommentAwardsXP(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewRoastService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "roasts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "content"}).
			AddRow("r1", "u1", "hot take"))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "roasts"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// the XP award transaction
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "username", "xp_points", "rank", "total_earnings"}).
			AddRow("p1", "u1", "one", 8, "Rookie", "0"))
	mock.ExpectExec(`UPDATE "profiles"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// commenting on your own roast: XP still awarded, no notification row
	viewer := &models.Viewer{UserID: "u1", Username: "one"}
	comment, err := svc.AddComment(viewer, models.LikeTarget{Kind: models.TargetRoast, ID: "r1"}, "agreed")
	require.NoError(t, err)
	assert.Equal(t, "agreed", comment.Content)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchFeedWindow(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewRoastService(gdb)

	roastRows := sqlmock.NewRows([]string{"id", "author_id", "content", "likes_count"}).
		AddRow("r2", "u2", "newer", 3).
		AddRow("r1", "u1", "older", 0)
	mock.ExpectQuery(`SELECT \* FROM "roasts"`).WillReturnRows(roastRows)

	authorRows := sqlmock.NewRows([]string{"id", "user_id", "username"}).
		AddRow("p2", "u2", "two").
		AddRow("p1", "u1", "one")
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).WillReturnRows(authorRows)

	// nil viewer: the liked-set lookup must not issue a third query
	items, err := svc.FetchFeed(nil, 20)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "r2", items[0].ID)
	assert.Equal(t, "r1", items[1].ID)
	require.NotNil(t, items[0].Author)
	assert.Equal(t, "two", items[0].Author.Username)
	assert.False(t, items[0].LikedByViewer)
	assert.False(t, items[1].LikedByViewer)

	assert.NoError(t, mock.ExpectationsWereMet())
}
