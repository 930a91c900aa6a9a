package models

import "time"

// Batch is a named cohort of students following one course.
type Batch struct {
	ID           int64     `db:"id" json:"id"`
	CourseID     int64     `db:"course_id" json:"course_id"`
	Name         string    `db:"batch_name" json:"batch_name"`
	NumStudents  int       `db:"num_students" json:"num_students"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id"`
	Timing       *string   `db:"timing" json:"timing,omitempty"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// BatchDetail carries the course and instructor names alongside a batch.
type BatchDetail struct {
	Batch
	CourseTitle    *string `db:"course_title" json:"course_name,omitempty"`
	InstructorName *string `db:"instructor_name" json:"instructor_name,omitempty"`
}

// BatchStudent links a student to the batch they follow for one course.
// At most one row may exist per (student_id, course_id); the storage layer
// enforces this with a unique constraint.
type BatchStudent struct {
	ID        int64   `db:"id" json:"id"`
	StudentID int64   `db:"student_id" json:"student_id"`
	BatchID   int64   `db:"batch_id" json:"batch_id"`
	CourseID  int64   `db:"course_id" json:"course_id"`
	BatchName *string `db:"batch_name" json:"batch_name,omitempty"`
}

// AssignmentOutcome buckets the students touched by an assign call.
type AssignmentOutcome struct {
	BatchName string  `json:"batch"`
	Assigned  []int64 `json:"new_assigned"`
	Moved     []int64 `json:"moved"`
	Skipped   []int64 `json:"already_in_same_batch"`
}

// RepairOutcome buckets the students touched by the assignment repair call.
type RepairOutcome struct {
	BatchName   string  `json:"batch"`
	AssignedNew []int64 `json:"assigned_new"`
	Moved       []int64 `json:"moved_students"`
}

// Assignment status values surfaced on roster entries.
const (
	AssignmentStatusAssigned   = "Assigned"
	AssignmentStatusUnassigned = "Unassigned"
)

// RosterEntry is one student on a course roster.
type RosterEntry struct {
	StudentID   int64     `db:"student_id" json:"student_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
	BatchName   *string   `db:"batch_name" json:"batch_name"`
	Status      string    `db:"-" json:"status"`
}

// Roster lists every purchaser of a course with their assignment status.
type Roster struct {
	CourseID int64         `json:"course_id"`
	Total    int           `json:"total_students"`
	Students []RosterEntry `json:"students"`
}
