package models

import "time"

// CourseCalendar is a scheduled session, scoped to a batch or to the whole
// course when batch_id is null.
type CourseCalendar struct {
	ID         int64      `db:"id" json:"calendar_id"`
	CourseID   *int64     `db:"course_id" json:"course_id,omitempty"`
	BatchID    *int64     `db:"batch_id" json:"batch_id,omitempty"`
	LessonID   *int64     `db:"lesson_id" json:"lesson_id,omitempty"`
	SelectDate *time.Time `db:"select_date" json:"select_date,omitempty"`
	Day        string     `db:"day" json:"day"`
	StartTime  *string    `db:"start_time" json:"start_time,omitempty"`
	EndTime    *string    `db:"end_time" json:"end_time,omitempty"`
}

// CalendarEntry is a calendar row enriched with lesson and batch names.
type CalendarEntry struct {
	CourseCalendar
	LessonTitle *string `db:"lesson_title" json:"lesson_title,omitempty"`
	BatchName   *string `db:"batch_name" json:"batch_name,omitempty"`
}

// StudentSchedule is the effective calendar for one student in one course,
// projected through their batch assignment.
type StudentSchedule struct {
	StudentID int64           `json:"student_id"`
	CourseID  int64           `json:"course_id"`
	BatchID   int64           `json:"batch_id"`
	BatchName string          `json:"batch_name"`
	Entries   []CalendarEntry `json:"entries"`
}

// MeetingLink is the live-meeting URL for a batch. At most one link per batch
// is assumed; lookups take the first match by id.
type MeetingLink struct {
	ID           int64  `db:"id" json:"id"`
	InstructorID int64  `db:"instructor_id" json:"instructor_id"`
	CourseID     int64  `db:"course_id" json:"course_id"`
	BatchID      int64  `db:"batch_id" json:"batch_id"`
	MeetingURL   string `db:"meeting_url" json:"meeting_url"`
}

// MeetingLinkDetail adds course and batch names to a meeting link.
type MeetingLinkDetail struct {
	MeetingLink
	CourseTitle *string `db:"course_title" json:"course_title,omitempty"`
	BatchName   *string `db:"batch_name" json:"batch_name,omitempty"`
}

// StudentMeeting is the resolved meeting view for a student in a course.
type StudentMeeting struct {
	StudentID   int64  `json:"student_id"`
	CourseID    int64  `json:"course_id"`
	CourseTitle string `json:"course_title"`
	BatchID     int64  `json:"batch_id"`
	BatchName   string `json:"batch_name"`
	MeetingURL  string `json:"meeting_url"`
}
