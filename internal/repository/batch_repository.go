package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kasadra/learning-api/internal/models"
)

// BatchRepository handles persistence of batches and student assignments.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs the repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// FindByID returns a batch by primary key.
func (r *BatchRepository) FindByID(ctx context.Context, id int64) (*models.Batch, error) {
	const query = `SELECT id, course_id, batch_name, num_students, instructor_id, timing, start_date, end_date, created_at
        FROM batches WHERE id = $1`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create persists a new batch and populates its ID.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO batches (course_id, batch_name, num_students, instructor_id, timing, start_date, end_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		batch.CourseID, batch.Name, batch.NumStudents, batch.InstructorID,
		batch.Timing, batch.StartDate, batch.EndDate, batch.CreatedAt).Scan(&batch.ID)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// ListDetailsByCourse returns every batch of a course with course and
// instructor names.
func (r *BatchRepository) ListDetailsByCourse(ctx context.Context, courseID int64) ([]models.BatchDetail, error) {
	const query = `SELECT b.id, b.course_id, b.batch_name, b.num_students, b.instructor_id, b.timing, b.start_date, b.end_date, b.created_at,
        c.title AS course_title, u.name AS instructor_name
        FROM batches b
        LEFT JOIN courses c ON c.id = b.course_id
        LEFT JOIN users u ON u.id = b.instructor_id
        WHERE b.course_id = $1
        ORDER BY b.id`
	var batches []models.BatchDetail
	if err := r.db.SelectContext(ctx, &batches, query, courseID); err != nil {
		return nil, fmt.Errorf("list batches by course: %w", err)
	}
	return batches, nil
}

// AssignStudents places each student into the batch, honoring the one
// assignment per (student, course) invariant. Existing assignments for the
// batch's course are moved in place; assignments already pointing at the
// batch are skipped. All mutations commit atomically; the first failure
// rolls back the whole call.
func (r *BatchRepository) AssignStudents(ctx context.Context, batch *models.Batch, studentIDs []int64) (outcome *models.AssignmentOutcome, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assignment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	outcome = &models.AssignmentOutcome{
		BatchName: batch.Name,
		Assigned:  []int64{},
		Moved:     []int64{},
		Skipped:   []int64{},
	}

	const selectQuery = `SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students
        WHERE student_id = $1 AND course_id = $2 FOR UPDATE`
	const insertQuery = `INSERT INTO batch_students (student_id, batch_id, course_id, batch_name) VALUES ($1, $2, $3, $4)`
	const updateQuery = `UPDATE batch_students SET batch_id = $2, batch_name = $3 WHERE id = $1`

	for _, studentID := range studentIDs {
		var existing models.BatchStudent
		err = tx.GetContext(ctx, &existing, selectQuery, studentID, batch.CourseID)
		if err != nil {
			if err != sql.ErrNoRows {
				err = fmt.Errorf("lock assignment for student %d: %w", studentID, err)
				return nil, err
			}
			if _, err = tx.ExecContext(ctx, insertQuery, studentID, batch.ID, batch.CourseID, batch.Name); err != nil {
				err = fmt.Errorf("insert assignment for student %d: %w", studentID, err)
				return nil, err
			}
			outcome.Assigned = append(outcome.Assigned, studentID)
			continue
		}

		if existing.BatchID == batch.ID {
			outcome.Skipped = append(outcome.Skipped, studentID)
			continue
		}

		if _, err = tx.ExecContext(ctx, updateQuery, existing.ID, batch.ID, batch.Name); err != nil {
			err = fmt.Errorf("move assignment for student %d: %w", studentID, err)
			return nil, err
		}
		outcome.Moved = append(outcome.Moved, studentID)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assignment transaction: %w", err)
	}
	return outcome, nil
}

// RepairAssignments normalises a student's assignment rows onto the batch:
// the first row (by id) is kept and moved, every other row is deleted, and a
// missing assignment is created. With courseScoped false the lookup spans
// every course the student is assigned in, mirroring the legacy repair
// behaviour; true restricts it to the batch's course.
func (r *BatchRepository) RepairAssignments(ctx context.Context, batch *models.Batch, studentIDs []int64, courseScoped bool) (outcome *models.RepairOutcome, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin repair transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	outcome = &models.RepairOutcome{
		BatchName:   batch.Name,
		AssignedNew: []int64{},
		Moved:       []int64{},
	}

	selectQuery := `SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students
        WHERE student_id = $1 ORDER BY id FOR UPDATE`
	selectArgs := func(studentID int64) []interface{} { return []interface{}{studentID} }
	if courseScoped {
		selectQuery = `SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students
        WHERE student_id = $1 AND course_id = $2 ORDER BY id FOR UPDATE`
		selectArgs = func(studentID int64) []interface{} { return []interface{}{studentID, batch.CourseID} }
	}

	const insertQuery = `INSERT INTO batch_students (student_id, batch_id, course_id, batch_name) VALUES ($1, $2, $3, $4)`
	const updateQuery = `UPDATE batch_students SET batch_id = $2, course_id = $3, batch_name = $4 WHERE id = $1`
	const deleteQuery = `DELETE FROM batch_students WHERE id = $1`

	for _, studentID := range studentIDs {
		var assignments []models.BatchStudent
		if err = tx.SelectContext(ctx, &assignments, selectQuery, selectArgs(studentID)...); err != nil {
			err = fmt.Errorf("load assignments for student %d: %w", studentID, err)
			return nil, err
		}

		if len(assignments) == 0 {
			if _, err = tx.ExecContext(ctx, insertQuery, studentID, batch.ID, batch.CourseID, batch.Name); err != nil {
				err = fmt.Errorf("insert assignment for student %d: %w", studentID, err)
				return nil, err
			}
			outcome.AssignedNew = append(outcome.AssignedNew, studentID)
			continue
		}

		main := assignments[0]
		if main.BatchID != batch.ID {
			if _, err = tx.ExecContext(ctx, updateQuery, main.ID, batch.ID, batch.CourseID, batch.Name); err != nil {
				err = fmt.Errorf("move assignment for student %d: %w", studentID, err)
				return nil, err
			}
			outcome.Moved = append(outcome.Moved, studentID)
		}

		for _, extra := range assignments[1:] {
			if _, err = tx.ExecContext(ctx, deleteQuery, extra.ID); err != nil {
				err = fmt.Errorf("delete duplicate assignment %d: %w", extra.ID, err)
				return nil, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit repair transaction: %w", err)
	}
	return outcome, nil
}

// ListRoster returns the raw roster join for a course: every purchaser,
// left-joined against their assignment for that course. The join can yield
// several rows per student; deduplication is the caller's concern.
func (r *BatchRepository) ListRoster(ctx context.Context, courseID int64) ([]models.RosterEntry, error) {
	const query = `SELECT u.id AS student_id, u.name, u.email, p.purchased_at, b.batch_name
        FROM users u
        JOIN purchased_courses p ON p.student_id = u.id
        LEFT JOIN batch_students bs ON bs.student_id = u.id AND bs.course_id = $1
        LEFT JOIN batches b ON b.id = bs.batch_id
        WHERE p.course_id = $1`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, courseID); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return entries, nil
}

// FindAssignmentByStudent resolves a student's assignment row. With
// courseScoped false the first row by id wins regardless of course; this is
// the legacy resolution used by schedule and meeting lookups.
func (r *BatchRepository) FindAssignmentByStudent(ctx context.Context, studentID int64, courseID int64, courseScoped bool) (*models.BatchStudent, error) {
	query := `SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students
        WHERE student_id = $1 ORDER BY id LIMIT 1`
	args := []interface{}{studentID}
	if courseScoped {
		query = `SELECT id, student_id, batch_id, course_id, batch_name FROM batch_students
        WHERE student_id = $1 AND course_id = $2 ORDER BY id LIMIT 1`
		args = append(args, courseID)
	}
	var assignment models.BatchStudent
	if err := r.db.GetContext(ctx, &assignment, query, args...); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CountAssignments reports the number of assignment rows for a
// (student, course) pair.
func (r *BatchRepository) CountAssignments(ctx context.Context, studentID, courseID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM batch_students WHERE student_id = $1 AND course_id = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID, courseID); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return total, nil
}
