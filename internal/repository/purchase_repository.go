package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kasadra/learning-api/internal/models"
)

// PurchaseRepository stores cart items and completed purchases.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository constructs the repository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// ListPurchasedCourseIDs returns the ids of every course the student has
// purchased, ordered by purchase row.
func (r *PurchaseRepository) ListPurchasedCourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	const query = `SELECT course_id FROM purchased_courses WHERE student_id = $1 ORDER BY id`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, fmt.Errorf("list purchased course ids: %w", err)
	}
	return ids, nil
}

// HasPurchased reports whether the student owns the course.
func (r *PurchaseRepository) HasPurchased(ctx context.Context, studentID, courseID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM purchased_courses WHERE student_id = $1 AND course_id = $2)`
	var purchased bool
	if err := r.db.GetContext(ctx, &purchased, query, studentID, courseID); err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return purchased, nil
}

// EnrollmentCounts returns the number of purchasers per course.
func (r *PurchaseRepository) EnrollmentCounts(ctx context.Context) ([]models.EnrollmentCount, error) {
	const query = `SELECT course_id, COUNT(*) AS total FROM purchased_courses GROUP BY course_id`
	var counts []models.EnrollmentCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	return counts, nil
}

// FindCartItem returns the cart row for a (student, course) pair, or
// sql.ErrNoRows when the course is not in the cart.
func (r *PurchaseRepository) FindCartItem(ctx context.Context, studentID, courseID int64) (*models.CartItem, error) {
	const query = `SELECT id, student_id, course_id, added_at FROM cart_items WHERE student_id = $1 AND course_id = $2`
	var item models.CartItem
	if err := r.db.GetContext(ctx, &item, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddCartItem inserts a cart row and populates its ID.
func (r *PurchaseRepository) AddCartItem(ctx context.Context, item *models.CartItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	const query = `INSERT INTO cart_items (student_id, course_id, added_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, item.StudentID, item.CourseID, item.AddedAt).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// RemoveCartItem deletes a cart row and reports whether one existed.
func (r *PurchaseRepository) RemoveCartItem(ctx context.Context, studentID, courseID int64) (bool, error) {
	const query = `DELETE FROM cart_items WHERE student_id = $1 AND course_id = $2`
	result, err := r.db.ExecContext(ctx, query, studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	return affected > 0, nil
}

// ListCartCourses returns the courses currently in the student's cart.
func (r *PurchaseRepository) ListCartCourses(ctx context.Context, studentID int64) ([]models.CartCourse, error) {
	const query = `SELECT c.id, c.title, c.duration
        FROM cart_items ci
        JOIN courses c ON c.id = ci.course_id
        WHERE ci.student_id = $1
        ORDER BY ci.id`
	var courses []models.CartCourse
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list cart courses: %w", err)
	}
	return courses, nil
}

// Purchase converts a cart item into a purchase atomically: the cart row is
// removed and the purchase recorded in one transaction.
func (r *PurchaseRepository) Purchase(ctx context.Context, studentID, courseID int64) (purchase *models.PurchasedCourse, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin purchase transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteQuery = `DELETE FROM cart_items WHERE student_id = $1 AND course_id = $2`
	if _, err = tx.ExecContext(ctx, deleteQuery, studentID, courseID); err != nil {
		err = fmt.Errorf("clear cart item: %w", err)
		return nil, err
	}

	purchase = &models.PurchasedCourse{
		StudentID:   studentID,
		CourseID:    courseID,
		PurchasedAt: time.Now().UTC(),
	}
	const insertQuery = `INSERT INTO purchased_courses (student_id, course_id, purchased_at) VALUES ($1, $2, $3) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery, purchase.StudentID, purchase.CourseID, purchase.PurchasedAt).Scan(&purchase.ID); err != nil {
		err = fmt.Errorf("record purchase: %w", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit purchase transaction: %w", err)
	}
	return purchase, nil
}
