package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kasadra/learning-api/internal/models"
)

// ScheduleRepository stores course calendars and meeting links.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateCalendar persists a calendar row and populates its ID.
func (r *ScheduleRepository) CreateCalendar(ctx context.Context, cal *models.CourseCalendar) error {
	const query = `INSERT INTO course_calendars (course_id, batch_id, lesson_id, select_date, day, start_time, end_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		cal.CourseID, cal.BatchID, cal.LessonID, cal.SelectDate, cal.Day, cal.StartTime, cal.EndTime).Scan(&cal.ID)
	if err != nil {
		return fmt.Errorf("create calendar entry: %w", err)
	}
	return nil
}

// FindCalendarByID returns one calendar row.
func (r *ScheduleRepository) FindCalendarByID(ctx context.Context, id int64) (*models.CourseCalendar, error) {
	const query = `SELECT id, course_id, batch_id, lesson_id, select_date, day, start_time, end_time
        FROM course_calendars WHERE id = $1`
	var cal models.CourseCalendar
	if err := r.db.GetContext(ctx, &cal, query, id); err != nil {
		return nil, err
	}
	return &cal, nil
}

// UpdateCalendar rewrites a calendar row in place.
func (r *ScheduleRepository) UpdateCalendar(ctx context.Context, cal *models.CourseCalendar) error {
	const query = `UPDATE course_calendars
        SET course_id = $2, batch_id = $3, lesson_id = $4, select_date = $5, day = $6, start_time = $7, end_time = $8
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		cal.ID, cal.CourseID, cal.BatchID, cal.LessonID, cal.SelectDate, cal.Day, cal.StartTime, cal.EndTime); err != nil {
		return fmt.Errorf("update calendar entry: %w", err)
	}
	return nil
}

// DeleteCalendar removes a calendar row and reports whether one existed.
func (r *ScheduleRepository) DeleteCalendar(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM course_calendars WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete calendar entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete calendar entry: %w", err)
	}
	return affected > 0, nil
}

// ListCalendarByBatch returns the calendar rows scoped to one batch, with
// lesson and batch names, ordered by row id. An empty result is not an
// error: a batch with no sessions simply has nothing scheduled.
func (r *ScheduleRepository) ListCalendarByBatch(ctx context.Context, batchID int64) ([]models.CalendarEntry, error) {
	const query = `SELECT cc.id, cc.course_id, cc.batch_id, cc.lesson_id, cc.select_date, cc.day, cc.start_time, cc.end_time,
        l.lesson_title, b.batch_name
        FROM course_calendars cc
        LEFT JOIN lessons l ON l.id = cc.lesson_id
        LEFT JOIN batches b ON b.id = cc.batch_id
        WHERE cc.batch_id = $1
        ORDER BY cc.id`
	var entries []models.CalendarEntry
	if err := r.db.SelectContext(ctx, &entries, query, batchID); err != nil {
		return nil, fmt.Errorf("list calendar by batch: %w", err)
	}
	return entries, nil
}

// ListCalendarByCourse returns every calendar row of a course.
func (r *ScheduleRepository) ListCalendarByCourse(ctx context.Context, courseID int64) ([]models.CalendarEntry, error) {
	const query = `SELECT cc.id, cc.course_id, cc.batch_id, cc.lesson_id, cc.select_date, cc.day, cc.start_time, cc.end_time,
        l.lesson_title, b.batch_name
        FROM course_calendars cc
        LEFT JOIN lessons l ON l.id = cc.lesson_id
        LEFT JOIN batches b ON b.id = cc.batch_id
        WHERE cc.course_id = $1
        ORDER BY cc.id`
	var entries []models.CalendarEntry
	if err := r.db.SelectContext(ctx, &entries, query, courseID); err != nil {
		return nil, fmt.Errorf("list calendar by course: %w", err)
	}
	return entries, nil
}

// CreateMeetingLink persists a meeting link and populates its ID.
func (r *ScheduleRepository) CreateMeetingLink(ctx context.Context, link *models.MeetingLink) error {
	const query = `INSERT INTO meeting_links (instructor_id, course_id, batch_id, meeting_url)
        VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		link.InstructorID, link.CourseID, link.BatchID, link.MeetingURL).Scan(&link.ID)
	if err != nil {
		return fmt.Errorf("create meeting link: %w", err)
	}
	return nil
}

// FindMeetingLinkByID returns one meeting link.
func (r *ScheduleRepository) FindMeetingLinkByID(ctx context.Context, id int64) (*models.MeetingLink, error) {
	const query = `SELECT id, instructor_id, course_id, batch_id, meeting_url FROM meeting_links WHERE id = $1`
	var link models.MeetingLink
	if err := r.db.GetContext(ctx, &link, query, id); err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateMeetingLink rewrites a meeting link's URL.
func (r *ScheduleRepository) UpdateMeetingLink(ctx context.Context, id int64, meetingURL string) error {
	const query = `UPDATE meeting_links SET meeting_url = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, meetingURL); err != nil {
		return fmt.Errorf("update meeting link: %w", err)
	}
	return nil
}

// DeleteMeetingLink removes a meeting link and reports whether one existed.
func (r *ScheduleRepository) DeleteMeetingLink(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM meeting_links WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete meeting link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete meeting link: %w", err)
	}
	return affected > 0, nil
}

// ListMeetingLinksByInstructor lists an instructor's meeting links with
// course and batch names.
func (r *ScheduleRepository) ListMeetingLinksByInstructor(ctx context.Context, instructorID int64) ([]models.MeetingLinkDetail, error) {
	const query = `SELECT m.id, m.instructor_id, m.course_id, m.batch_id, m.meeting_url,
        c.title AS course_title, b.batch_name
        FROM meeting_links m
        LEFT JOIN courses c ON c.id = m.course_id
        LEFT JOIN batches b ON b.id = m.batch_id
        WHERE m.instructor_id = $1
        ORDER BY m.id`
	var links []models.MeetingLinkDetail
	if err := r.db.SelectContext(ctx, &links, query, instructorID); err != nil {
		return nil, fmt.Errorf("list meeting links: %w", err)
	}
	return links, nil
}

// FindFirstMeetingByBatch returns the first meeting link of a batch by row
// id, or sql.ErrNoRows when the batch has none.
func (r *ScheduleRepository) FindFirstMeetingByBatch(ctx context.Context, batchID int64) (*models.MeetingLink, error) {
	const query = `SELECT id, instructor_id, course_id, batch_id, meeting_url
        FROM meeting_links WHERE batch_id = $1 ORDER BY id LIMIT 1`
	var link models.MeetingLink
	if err := r.db.GetContext(ctx, &link, query, batchID); err != nil {
		return nil, err
	}
	return &link, nil
}
