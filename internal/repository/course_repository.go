package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kasadra/learning-api/internal/models"
)

// CourseRepository handles persistence of courses and lessons.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course by primary key.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, instructor_id, title, description, duration, thumbnail_url, created_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID returns a course joined with its instructor name.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error) {
	const query = `SELECT c.id, c.instructor_id, c.title, c.description, c.duration, c.thumbnail_url, c.created_at,
        u.name AS instructor_name
        FROM courses c
        LEFT JOIN users u ON u.id = c.instructor_id
        WHERE c.id = $1`
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListDetails returns every course with its instructor name.
func (r *CourseRepository) ListDetails(ctx context.Context) ([]models.CourseDetail, error) {
	const query = `SELECT c.id, c.instructor_id, c.title, c.description, c.duration, c.thumbnail_url, c.created_at,
        u.name AS instructor_name
        FROM courses c
        LEFT JOIN users u ON u.id = c.instructor_id
        ORDER BY c.id`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListDetailsIn returns the courses whose ids are in the given set.
func (r *CourseRepository) ListDetailsIn(ctx context.Context, ids []int64) ([]models.CourseDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT c.id, c.instructor_id, c.title, c.description, c.duration, c.thumbnail_url, c.created_at,
        u.name AS instructor_name
        FROM courses c
        LEFT JOIN users u ON u.id = c.instructor_id
        WHERE c.id = ANY($1)
        ORDER BY c.id`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list courses in set: %w", err)
	}
	return courses, nil
}

// ListDetailsExcluding returns the courses whose ids are not in the given set.
// An empty set returns the whole catalog.
func (r *CourseRepository) ListDetailsExcluding(ctx context.Context, ids []int64) ([]models.CourseDetail, error) {
	if len(ids) == 0 {
		return r.ListDetails(ctx)
	}
	const query = `SELECT c.id, c.instructor_id, c.title, c.description, c.duration, c.thumbnail_url, c.created_at,
        u.name AS instructor_name
        FROM courses c
        LEFT JOIN users u ON u.id = c.instructor_id
        WHERE NOT (c.id = ANY($1))
        ORDER BY c.id`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list courses excluding set: %w", err)
	}
	return courses, nil
}

// FindLessonByID returns a lesson by primary key.
func (r *CourseRepository) FindLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	const query = `SELECT id, instructor_id, course_id, lesson_title, description, created_at FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListLessonsByCourse returns the lessons of a course ordered by id.
func (r *CourseRepository) ListLessonsByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	const query = `SELECT id, instructor_id, course_id, lesson_title, description, created_at FROM lessons WHERE course_id = $1 ORDER BY id`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, courseID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}
