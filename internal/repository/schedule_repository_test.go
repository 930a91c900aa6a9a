package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestScheduleRepositoryListCalendarByBatchEmpty(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cc.batch_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "batch_id", "lesson_id", "select_date", "day", "start_time", "end_time", "lesson_title", "batch_name"}))

	entries, err := repo.ListCalendarByBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScheduleRepositoryFindFirstMeetingByBatch(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM meeting_links WHERE batch_id = $1 ORDER BY id LIMIT 1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "instructor_id", "course_id", "batch_id", "meeting_url"}).
			AddRow(int64(1), int64(2), int64(3), int64(10), "https://meet.example.com/abc"))

	link, err := repo.FindFirstMeetingByBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/abc", link.MeetingURL)
}

func TestScheduleRepositoryFindFirstMeetingByBatchMissing(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM meeting_links WHERE batch_id = $1 ORDER BY id LIMIT 1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	link, err := repo.FindFirstMeetingByBatch(context.Background(), 99)
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, link)
}

func TestScheduleRepositoryDeleteCalendarReportsMissing(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_calendars WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteCalendar(context.Background(), 77)
	require.NoError(t, err)
	assert.False(t, deleted)
}
