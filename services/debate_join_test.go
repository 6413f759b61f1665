package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seefinish-platform/models"
)

func debateRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "organizer_id", "title", "debate_type", "status",
		"entry_fee_ngn", "entry_fee_sol", "max_participants",
	}).AddRow("d1", "org1", "Pineapple pizza", models.DebateTypeFreestyle,
		models.DebateStatusScheduled, "1000", "0", 2)
}

// A failed payment call must release the seat again: the participant and
// ledger rows are deleted so a later join can retry, instead of the user
// holding a pending seat with no checkout URL.
func TestJoinReleasesSeatWhenPaymentFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gdb, mock := newMockDB(t)
	svc := NewDebateService(gdb, NewPaymentClient(server.URL, "token"))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "debates".*FOR UPDATE`).WillReturnRows(debateRow())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "debate_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "debate_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "debate_participants"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// compensating deletes after the provider error
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "debate_participants"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	viewer := &models.Viewer{UserID: "u1", Username: "one"}
	_, err := svc.Join(viewer, "d1", CurrencyNGN, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyJoined)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The capacity check reads the debate row under a row lock and counts
// inside the same transaction, so concurrent joins serialize instead of
// both observing a free seat.
func TestJoinRejectsFullDebateInsideTransaction(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewDebateService(gdb, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "debates".*FOR UPDATE`).WillReturnRows(debateRow())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "debate_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	viewer := &models.Viewer{UserID: "u1", Username: "one"}
	_, err := svc.Join(viewer, "d1", CurrencyNGN, "")
	assert.ErrorIs(t, err, ErrDebateFull)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinRejectsDuplicateInsideTransaction(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewDebateService(gdb, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "debates".*FOR UPDATE`).WillReturnRows(debateRow())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "debate_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "debate_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	viewer := &models.Viewer{UserID: "u1", Username: "one"}
	_, err := svc.Join(viewer, "d1", CurrencyNGN, "")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	assert.NoError(t, mock.ExpectationsWereMet())
}
