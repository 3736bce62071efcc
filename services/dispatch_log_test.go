package services

import (
	"testing"
	"time"

	"brandflow-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*DispatchLogStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	return NewDispatchLogStore(gdb), mock
}

func TestHasSentToday(t *testing.T) {
	store, mock := newMockStore(t)

	userID := uuid.New()
	postID := uuid.New()
	now := time.Date(2025, 11, 13, 9, 5, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WithArgs(userID, postID, models.KindDueDateReminder, true, "2025-11-13").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sent, err := store.HasSentToday(userID, postID, models.KindDueDateReminder, now)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasSentTodayNoEntry(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	sent, err := store.HasSentToday(uuid.New(), uuid.New(), models.KindDueDateReminder, time.Now())
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestRecordDuplicateSend(t *testing.T) {
	store, mock := newMockStore(t)

	// The postgres dialect inserts with RETURNING, so the statement arrives as
	// a query rather than an exec.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notification_logs" .+ RETURNING`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	postID := uuid.New()
	day := "2025-11-13"
	err := store.Record(&models.NotificationLog{
		UserID:   uuid.New(),
		PostID:   &postID,
		Kind:     models.KindDueDateReminder,
		Message:  "reminder",
		Address:  "+15550001111",
		Sent:     true,
		SentDate: &day,
	})
	assert.ErrorIs(t, err, ErrDuplicateSend)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSuccess(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notification_logs" .+ RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	err := store.Record(&models.NotificationLog{
		UserID:  uuid.New(),
		Kind:    models.KindTestMessage,
		Message: "test",
		Address: "+15550001111",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store, mock := newMockStore(t)

	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "sent"}).
		AddRow(uuid.New().String(), userID.String(), models.KindDueDateReminder, true).
		AddRow(uuid.New().String(), userID.String(), models.KindTestMessage, false)

	mock.ExpectQuery(`SELECT \* FROM "notification_logs" WHERE user_id = .+ ORDER BY created_at DESC`).
		WillReturnRows(rows)

	logs, err := store.Recent(userID, 20, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.KindDueDateReminder, logs[0].Kind)
}

func TestRecentClampsPagination(t *testing.T) {
	store, mock := newMockStore(t)

	// limit above the cap and a negative offset are clamped, not rejected.
	mock.ExpectQuery(`SELECT \* FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Recent(uuid.New(), 500, -3)
	require.NoError(t, err)
}

func TestCountForDay(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := store.CountForDay(time.Date(2025, 11, 13, 15, 0, 0, 0, time.Local), true)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}
