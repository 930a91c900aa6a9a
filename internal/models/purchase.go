package models

import "time"

// PurchasedCourse records that a student bought a course. Purchase removes
// the matching cart row; the transition is one-way.
type PurchasedCourse struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	CourseID    int64     `db:"course_id" json:"course_id"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
}

// CartItem is a course a student intends to buy.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
}

// CartCourse is the course view returned when listing a cart.
type CartCourse struct {
	ID       int64  `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Duration string `db:"duration" json:"duration"`
}

// Recommendation holds courses a student has not yet purchased ("recommended"
// is set subtraction over the catalog, not a ranking).
type Recommendation struct {
	Courses []CourseDetail `json:"courses"`
	Message string         `json:"message"`
}

// CatalogSplit returns both sides of the purchased/recommended partition.
type CatalogSplit struct {
	Purchased   []CourseDetail `json:"purchased_courses"`
	Recommended []CourseDetail `json:"recommended_courses"`
	Message     string         `json:"message"`
}
