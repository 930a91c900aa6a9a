package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kasadra/learning-api/internal/models"
)

// ActivationRepository stores per-batch lesson activations. A row's
// existence is the activation flag: inserting activates, deleting
// deactivates.
type ActivationRepository struct {
	db *sqlx.DB
}

// NewActivationRepository constructs the repository.
func NewActivationRepository(db *sqlx.DB) *ActivationRepository {
	return &ActivationRepository{db: db}
}

// Toggle flips the activation state of a lesson for a batch and returns the
// resulting state. The row is locked before the decision so concurrent
// toggles serialise; the conflict clause absorbs a racing insert between the
// lookup and the write.
func (r *ActivationRepository) Toggle(ctx context.Context, batchID, lessonID int64, activatedBy *int64) (active bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectQuery = `SELECT id FROM batch_lesson_activations WHERE batch_id = $1 AND lesson_id = $2 FOR UPDATE`
	var existingID int64
	err = tx.GetContext(ctx, &existingID, selectQuery, batchID, lessonID)
	switch {
	case err == nil:
		const deleteQuery = `DELETE FROM batch_lesson_activations WHERE id = $1`
		if _, err = tx.ExecContext(ctx, deleteQuery, existingID); err != nil {
			err = fmt.Errorf("deactivate lesson: %w", err)
			return false, err
		}
		active = false
	case err == sql.ErrNoRows:
		const insertQuery = `INSERT INTO batch_lesson_activations (batch_id, lesson_id, activated_by, activated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (batch_id, lesson_id) DO NOTHING`
		if _, err = tx.ExecContext(ctx, insertQuery, batchID, lessonID, activatedBy, time.Now().UTC()); err != nil {
			err = fmt.Errorf("activate lesson: %w", err)
			return false, err
		}
		active = true
	default:
		err = fmt.Errorf("lock activation row: %w", err)
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle transaction: %w", err)
	}
	return active, nil
}

// ListForBatch returns every lesson of the batch's course annotated with its
// activation state for that batch, ordered by lesson id.
func (r *ActivationRepository) ListForBatch(ctx context.Context, batchID, courseID int64) ([]models.LessonActivation, error) {
	const query = `SELECT l.id AS lesson_id, l.lesson_title AS title, l.description, l.course_id, c.title AS course_name,
        (a.id IS NOT NULL) AS is_active, a.activated_at
        FROM lessons l
        JOIN courses c ON c.id = l.course_id
        LEFT JOIN batch_lesson_activations a ON a.lesson_id = l.id AND a.batch_id = $1
        WHERE l.course_id = $2
        ORDER BY l.id`
	var lessons []models.LessonActivation
	if err := r.db.SelectContext(ctx, &lessons, query, batchID, courseID); err != nil {
		return nil, fmt.Errorf("list lesson activations: %w", err)
	}
	return lessons, nil
}

// IsActive reports whether a lesson is currently active for a batch.
func (r *ActivationRepository) IsActive(ctx context.Context, batchID, lessonID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM batch_lesson_activations WHERE batch_id = $1 AND lesson_id = $2)`
	var active bool
	if err := r.db.GetContext(ctx, &active, query, batchID, lessonID); err != nil {
		return false, fmt.Errorf("check activation: %w", err)
	}
	return active, nil
}
