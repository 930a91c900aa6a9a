package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/pkg/config"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

// CalendarRequest is the payload for creating or updating a calendar entry.
type CalendarRequest struct {
	CourseID   *int64     `json:"course_id"`
	BatchID    *int64     `json:"batch_id"`
	LessonID   *int64     `json:"lesson_id"`
	SelectDate *time.Time `json:"select_date"`
	Day        string     `json:"day" validate:"required"`
	StartTime  *string    `json:"start_time"`
	EndTime    *string    `json:"end_time"`
}

// MeetingLinkRequest is the payload for creating a meeting link.
type MeetingLinkRequest struct {
	CourseID   int64  `json:"course_id" validate:"required,gt=0"`
	BatchID    int64  `json:"batch_id" validate:"required,gt=0"`
	MeetingURL string `json:"meeting_url" validate:"required,url"`
}

type scheduleStore interface {
	CreateCalendar(ctx context.Context, cal *models.CourseCalendar) error
	FindCalendarByID(ctx context.Context, id int64) (*models.CourseCalendar, error)
	UpdateCalendar(ctx context.Context, cal *models.CourseCalendar) error
	DeleteCalendar(ctx context.Context, id int64) (bool, error)
	ListCalendarByBatch(ctx context.Context, batchID int64) ([]models.CalendarEntry, error)
	ListCalendarByCourse(ctx context.Context, courseID int64) ([]models.CalendarEntry, error)
	CreateMeetingLink(ctx context.Context, link *models.MeetingLink) error
	FindMeetingLinkByID(ctx context.Context, id int64) (*models.MeetingLink, error)
	UpdateMeetingLink(ctx context.Context, id int64, meetingURL string) error
	DeleteMeetingLink(ctx context.Context, id int64) (bool, error)
	ListMeetingLinksByInstructor(ctx context.Context, instructorID int64) ([]models.MeetingLinkDetail, error)
	FindFirstMeetingByBatch(ctx context.Context, batchID int64) (*models.MeetingLink, error)
}

type scheduleBatchReader interface {
	FindByID(ctx context.Context, id int64) (*models.Batch, error)
	FindAssignmentByStudent(ctx context.Context, studentID int64, courseID int64, courseScoped bool) (*models.BatchStudent, error)
}

type scheduleCourseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
}

type scheduleUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ScheduleService manages calendars and meeting links and projects them onto
// students through their batch assignment.
type ScheduleService struct {
	store     scheduleStore
	batches   scheduleBatchReader
	courses   scheduleCourseReader
	users     scheduleUserReader
	cfg       config.AssignmentsConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService builds a ScheduleService.
func NewScheduleService(
	store scheduleStore,
	batches scheduleBatchReader,
	courses scheduleCourseReader,
	users scheduleUserReader,
	cfg config.AssignmentsConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		store:     store,
		batches:   batches,
		courses:   courses,
		users:     users,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

// CreateCalendar adds a calendar entry after cross-validating its
// references: a lesson must belong to the referenced course, and a batch
// must be a batch of that course.
func (s *ScheduleService) CreateCalendar(ctx context.Context, req CalendarRequest) (*models.CourseCalendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}
	if err := s.validateCalendarRefs(ctx, req); err != nil {
		return nil, err
	}

	cal := &models.CourseCalendar{
		CourseID:   req.CourseID,
		BatchID:    req.BatchID,
		LessonID:   req.LessonID,
		SelectDate: req.SelectDate,
		Day:        req.Day,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := s.store.CreateCalendar(ctx, cal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendar entry")
	}
	return cal, nil
}

// UpdateCalendar rewrites an existing calendar entry.
func (s *ScheduleService) UpdateCalendar(ctx context.Context, id int64, req CalendarRequest) (*models.CourseCalendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}
	if _, err := s.store.FindCalendarByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar entry")
	}
	if err := s.validateCalendarRefs(ctx, req); err != nil {
		return nil, err
	}

	cal := &models.CourseCalendar{
		ID:         id,
		CourseID:   req.CourseID,
		BatchID:    req.BatchID,
		LessonID:   req.LessonID,
		SelectDate: req.SelectDate,
		Day:        req.Day,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := s.store.UpdateCalendar(ctx, cal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar entry")
	}
	return cal, nil
}

// DeleteCalendar removes a calendar entry.
func (s *ScheduleService) DeleteCalendar(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteCalendar(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete calendar entry")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "calendar entry not found")
	}
	return nil
}

// ListCalendarByCourse returns a course's calendar entries.
func (s *ScheduleService) ListCalendarByCourse(ctx context.Context, courseID int64) ([]models.CalendarEntry, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	entries, err := s.store.ListCalendarByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar")
	}
	if entries == nil {
		entries = []models.CalendarEntry{}
	}
	return entries, nil
}

// CreateMeetingLink registers a meeting link owned by the instructor.
func (s *ScheduleService) CreateMeetingLink(ctx context.Context, instructorID int64, req MeetingLinkRequest) (*models.MeetingLink, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting link payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if batch.CourseID != req.CourseID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch does not belong to the course")
	}

	link := &models.MeetingLink{
		InstructorID: instructorID,
		CourseID:     req.CourseID,
		BatchID:      req.BatchID,
		MeetingURL:   req.MeetingURL,
	}
	if err := s.store.CreateMeetingLink(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting link")
	}
	return link, nil
}

// ListMeetingLinks returns the instructor's meeting links.
func (s *ScheduleService) ListMeetingLinks(ctx context.Context, instructorID int64) ([]models.MeetingLinkDetail, error) {
	links, err := s.store.ListMeetingLinksByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meeting links")
	}
	if links == nil {
		links = []models.MeetingLinkDetail{}
	}
	return links, nil
}

// UpdateMeetingLink rewrites a meeting URL. Only the owning instructor may
// update it.
func (s *ScheduleService) UpdateMeetingLink(ctx context.Context, instructorID, linkID int64, meetingURL string) (*models.MeetingLink, error) {
	if meetingURL == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "meeting_url is required")
	}
	link, err := s.store.FindMeetingLinkByID(ctx, linkID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting link not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting link")
	}
	if link.InstructorID != instructorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "meeting link belongs to another instructor")
	}
	if err := s.store.UpdateMeetingLink(ctx, linkID, meetingURL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update meeting link")
	}
	link.MeetingURL = meetingURL
	return link, nil
}

// DeleteMeetingLink removes a meeting link owned by the instructor.
func (s *ScheduleService) DeleteMeetingLink(ctx context.Context, instructorID, linkID int64) error {
	link, err := s.store.FindMeetingLinkByID(ctx, linkID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "meeting link not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting link")
	}
	if link.InstructorID != instructorID {
		return appErrors.Clone(appErrors.ErrForbidden, "meeting link belongs to another instructor")
	}
	deleted, err := s.store.DeleteMeetingLink(ctx, linkID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete meeting link")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "meeting link not found")
	}
	return nil
}

// ResolveStudentSchedule projects the course calendar onto a student through
// their batch assignment. An empty calendar is a success with no entries.
func (s *ScheduleService) ResolveStudentSchedule(ctx context.Context, studentID, courseID int64) (*models.StudentSchedule, error) {
	batch, err := s.resolveBatch(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListCalendarByBatch(ctx, batch.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar")
	}
	if entries == nil {
		entries = []models.CalendarEntry{}
	}

	return &models.StudentSchedule{
		StudentID: studentID,
		CourseID:  courseID,
		BatchID:   batch.ID,
		BatchName: batch.Name,
		Entries:   entries,
	}, nil
}

// ResolveStudentMeeting resolves the live-meeting link for a student in a
// course. A batch without a meeting link is a NotFound, unlike the empty
// calendar case.
func (s *ScheduleService) ResolveStudentMeeting(ctx context.Context, studentID, courseID int64) (*models.StudentMeeting, error) {
	batch, err := s.resolveBatch(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	link, err := s.store.FindFirstMeetingByBatch(ctx, batch.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no meeting link for this batch")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting link")
	}

	return &models.StudentMeeting{
		StudentID:   studentID,
		CourseID:    courseID,
		CourseTitle: course.Title,
		BatchID:     batch.ID,
		BatchName:   batch.Name,
		MeetingURL:  link.MeetingURL,
	}, nil
}

// resolveBatch finds the student's batch for a course: role check, then
// assignment lookup, then a course-match validation. With course-unscoped
// lookup the assignment found may belong to another course, which the
// validation step rejects.
func (s *ScheduleService) resolveBatch(ctx context.Context, studentID, courseID int64) (*models.Batch, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !user.IsStudent() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not a student")
	}

	assignment, err := s.batches.FindAssignmentByStudent(ctx, studentID, courseID, s.cfg.CourseScopedLookup)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not assigned to a batch")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	batch, err := s.batches.FindByID(ctx, assignment.BatchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if batch.CourseID != courseID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student's batch does not belong to the requested course")
	}
	return batch, nil
}

func (s *ScheduleService) validateCalendarRefs(ctx context.Context, req CalendarRequest) error {
	var course *models.Course
	if req.CourseID != nil {
		found, err := s.courses.FindByID(ctx, *req.CourseID)
		if err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		course = found
	}
	if req.BatchID != nil {
		batch, err := s.batches.FindByID(ctx, *req.BatchID)
		if err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
		}
		if course != nil && batch.CourseID != course.ID {
			return appErrors.Clone(appErrors.ErrValidation, "batch does not belong to the course")
		}
	}
	if req.LessonID != nil {
		lesson, err := s.courses.FindLessonByID(ctx, *req.LessonID)
		if err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
		}
		if course != nil && lesson.CourseID != course.ID {
			return appErrors.Clone(appErrors.ErrValidation, "lesson does not belong to the course")
		}
	}
	return nil
}
