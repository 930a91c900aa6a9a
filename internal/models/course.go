package models

import "time"

// Course represents a published course owned by an instructor.
type Course struct {
	ID           int64     `db:"id" json:"id"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Duration     string    `db:"duration" json:"duration"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CourseDetail adds the instructor name and enrollment count to a course.
type CourseDetail struct {
	Course
	InstructorName   *string `db:"instructor_name" json:"instructor_name,omitempty"`
	TotalEnrollments int     `db:"-" json:"total_enrollments"`
}

// Lesson belongs to exactly one course.
type Lesson struct {
	ID           int64     `db:"id" json:"id"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id"`
	CourseID     int64     `db:"course_id" json:"course_id"`
	Title        string    `db:"lesson_title" json:"title"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentCount is a per-course purchase tally.
type EnrollmentCount struct {
	CourseID int64 `db:"course_id"`
	Total    int   `db:"total"`
}
