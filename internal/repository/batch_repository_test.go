package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasadra/learning-api/internal/models"
)

func newBatchRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
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

func testBatch() *models.Batch {
	return &models.Batch{ID: 10, CourseID: 3, Name: "Morning Batch"}
}

func TestBatchRepositoryAssignStudentsBuckets(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)
	batch := testBatch()

	mock.ExpectBegin()

	// student 1: no assignment yet, inserted
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students")).
		WithArgs(int64(1), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batch_students")).
		WithArgs(int64(1), int64(10), int64(3), "Morning Batch").
		WillReturnResult(sqlmock.NewResult(1, 1))

	// student 2: assigned elsewhere in the same course, moved
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students")).
		WithArgs(int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "course_id", "batch_name"}).
			AddRow(int64(55), int64(2), int64(9), int64(3), "Evening Batch"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE batch_students SET batch_id = $2, batch_name = $3 WHERE id = $1")).
		WithArgs(int64(55), int64(10), "Morning Batch").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// student 3: already in the target batch, skipped
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students")).
		WithArgs(int64(3), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "course_id", "batch_name"}).
			AddRow(int64(56), int64(3), int64(10), int64(3), "Morning Batch"))

	mock.ExpectCommit()

	outcome, err := repo.AssignStudents(context.Background(), batch, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "Morning Batch", outcome.BatchName)
	assert.Equal(t, []int64{1}, outcome.Assigned)
	assert.Equal(t, []int64{2}, outcome.Moved)
	assert.Equal(t, []int64{3}, outcome.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryAssignStudentsRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)
	batch := testBatch()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students")).
		WithArgs(int64(1), int64(3)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	outcome, err := repo.AssignStudents(context.Background(), batch, []int64{1})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryRepairKeepsFirstRowAndDeletesExtras(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)
	batch := testBatch()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 ORDER BY id FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "course_id", "batch_name"}).
			AddRow(int64(20), int64(7), int64(9), int64(3), "Evening Batch").
			AddRow(int64(21), int64(7), int64(10), int64(3), "Morning Batch"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE batch_students SET batch_id = $2, course_id = $3, batch_name = $4 WHERE id = $1")).
		WithArgs(int64(20), int64(10), int64(3), "Morning Batch").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batch_students WHERE id = $1")).
		WithArgs(int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := repo.RepairAssignments(context.Background(), batch, []int64{7}, false)
	require.NoError(t, err)
	assert.Empty(t, outcome.AssignedNew)
	assert.Equal(t, []int64{7}, outcome.Moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryRepairInsertsWhenMissing(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)
	batch := testBatch()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 AND course_id = $2 ORDER BY id FOR UPDATE")).
		WithArgs(int64(8), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "course_id", "batch_name"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batch_students")).
		WithArgs(int64(8), int64(10), int64(3), "Morning Batch").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	outcome, err := repo.RepairAssignments(context.Background(), batch, []int64{8}, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, outcome.AssignedNew)
	assert.Empty(t, outcome.Moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryRepairSkipsAlignedRow(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)
	batch := testBatch()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 ORDER BY id FOR UPDATE")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "course_id", "batch_name"}).
			AddRow(int64(30), int64(9), int64(10), int64(3), "Morning Batch"))
	mock.ExpectCommit()

	outcome, err := repo.RepairAssignments(context.Background(), batch, []int64{9}, false)
	require.NoError(t, err)
	assert.Empty(t, outcome.AssignedNew)
	assert.Empty(t, outcome.Moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryListRoster(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN purchased_courses p ON p.student_id = u.id")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "name", "email", "purchased_at", "batch_name"}).
			AddRow(int64(1), "Asha", "asha@example.com", time.Now(), sql.NullString{String: "Morning Batch", Valid: true}).
			AddRow(int64(2), "Ben", "ben@example.com", time.Now(), sql.NullString{Valid: false}))

	entries, err := repo.ListRoster(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].BatchName)
	assert.Equal(t, "Morning Batch", *entries[0].BatchName)
	assert.Nil(t, entries[1].BatchName)
}

func TestBatchRepositoryFindAssignmentByStudentUnscoped(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 ORDER BY id LIMIT 1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "course_id", "batch_name"}).
			AddRow(int64(70), int64(4), int64(10), int64(5), "Other Course Batch"))

	assignment, err := repo.FindAssignmentByStudent(context.Background(), 4, 3, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), assignment.CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryCountAssignments(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	// One row per (student, course) is the steady state repair converges to.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM batch_students WHERE student_id = $1 AND course_id = $2")).
		WithArgs(int64(4), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	total, err := repo.CountAssignments(context.Background(), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
