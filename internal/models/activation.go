package models

import "time"

// BatchLessonActivation marks a lesson as visible to one batch. The row's
// existence is the activation state; there is no stored flag.
type BatchLessonActivation struct {
	ID          int64     `db:"id" json:"id"`
	BatchID     int64     `db:"batch_id" json:"batch_id"`
	LessonID    int64     `db:"lesson_id" json:"lesson_id"`
	ActivatedBy *int64    `db:"activated_by" json:"activated_by,omitempty"`
	ActivatedAt time.Time `db:"activated_at" json:"activated_at"`
}

// LessonActivation is one row in the per-batch lesson listing: every lesson
// of the batch's course joined against its activation for that batch.
type LessonActivation struct {
	LessonID    int64      `db:"lesson_id" json:"lesson_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	CourseID    int64      `db:"course_id" json:"course_id"`
	CourseName  string     `db:"course_name" json:"course_name"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	ActivatedAt *time.Time `db:"activated_at" json:"activated_at,omitempty"`
}

// ToggleResult reports the activation state after a toggle call.
type ToggleResult struct {
	LessonID int64 `json:"lesson_id"`
	BatchID  int64 `json:"batch_id"`
	IsActive bool  `json:"is_active"`
}
