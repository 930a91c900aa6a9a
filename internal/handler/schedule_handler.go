package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/internal/service"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/response"
)

type scheduleService interface {
	CreateCalendar(ctx context.Context, req service.CalendarRequest) (*models.CourseCalendar, error)
	UpdateCalendar(ctx context.Context, id int64, req service.CalendarRequest) (*models.CourseCalendar, error)
	DeleteCalendar(ctx context.Context, id int64) error
	ListCalendarByCourse(ctx context.Context, courseID int64) ([]models.CalendarEntry, error)
	CreateMeetingLink(ctx context.Context, instructorID int64, req service.MeetingLinkRequest) (*models.MeetingLink, error)
	ListMeetingLinks(ctx context.Context, instructorID int64) ([]models.MeetingLinkDetail, error)
	UpdateMeetingLink(ctx context.Context, instructorID, linkID int64, meetingURL string) (*models.MeetingLink, error)
	DeleteMeetingLink(ctx context.Context, instructorID, linkID int64) error
	ResolveStudentSchedule(ctx context.Context, studentID, courseID int64) (*models.StudentSchedule, error)
	ResolveStudentMeeting(ctx context.Context, studentID, courseID int64) (*models.StudentMeeting, error)
}

// ScheduleHandler exposes calendar, meeting-link and schedule endpoints.
type ScheduleHandler struct {
	schedules scheduleService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(schedules scheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// CreateCalendar godoc
// @Summary Create a calendar entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CalendarRequest true "Calendar payload"
// @Success 201 {object} response.Envelope
// @Router /calendars [post]
func (h *ScheduleHandler) CreateCalendar(c *gin.Context) {
	var req service.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calendar payload"))
		return
	}
	cal, err := h.schedules.CreateCalendar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cal)
}

// UpdateCalendar godoc
// @Summary Update a calendar entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param calendarId path int true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId} [put]
func (h *ScheduleHandler) UpdateCalendar(c *gin.Context) {
	calendarID, err := pathID(c, "calendarId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calendar payload"))
		return
	}
	cal, err := h.schedules.UpdateCalendar(c.Request.Context(), calendarID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cal, nil)
}

// DeleteCalendar godoc
// @Summary Delete a calendar entry
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param calendarId path int true "Calendar ID"
// @Success 204
// @Router /calendars/{calendarId} [delete]
func (h *ScheduleHandler) DeleteCalendar(c *gin.Context) {
	calendarID, err := pathID(c, "calendarId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schedules.DeleteCalendar(c.Request.Context(), calendarID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCalendarByCourse godoc
// @Summary List a course's calendar entries
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/calendar [get]
func (h *ScheduleHandler) ListCalendarByCourse(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.schedules.ListCalendarByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// CreateMeetingLink godoc
// @Summary Register a meeting link for a batch
// @Tags Meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.MeetingLinkRequest true "Meeting link payload"
// @Success 201 {object} response.Envelope
// @Router /meetings [post]
func (h *ScheduleHandler) CreateMeetingLink(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.MeetingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid meeting link payload"))
		return
	}
	link, err := h.schedules.CreateMeetingLink(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// ListMeetingLinks godoc
// @Summary List the caller's meeting links
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /meetings [get]
func (h *ScheduleHandler) ListMeetingLinks(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	links, err := h.schedules.ListMeetingLinks(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// UpdateMeetingLink godoc
// @Summary Update a meeting link's URL
// @Tags Meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meetingId path int true "Meeting link ID"
// @Success 200 {object} response.Envelope
// @Router /meetings/{meetingId} [put]
func (h *ScheduleHandler) UpdateMeetingLink(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	linkID, err := pathID(c, "meetingId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		MeetingURL string `json:"meeting_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid meeting link payload"))
		return
	}
	link, err := h.schedules.UpdateMeetingLink(c.Request.Context(), claims.UserID, linkID, req.MeetingURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// DeleteMeetingLink godoc
// @Summary Delete a meeting link
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Param meetingId path int true "Meeting link ID"
// @Success 204
// @Router /meetings/{meetingId} [delete]
func (h *ScheduleHandler) DeleteMeetingLink(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	linkID, err := pathID(c, "meetingId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schedules.DeleteMeetingLink(c.Request.Context(), claims.UserID, linkID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentSchedule godoc
// @Summary Get the caller's schedule for a course
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/schedule [get]
func (h *ScheduleHandler) StudentSchedule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.schedules.ResolveStudentSchedule(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// StudentMeeting godoc
// @Summary Get the caller's meeting link for a course
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/meeting [get]
func (h *ScheduleHandler) StudentMeeting(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	meeting, err := h.schedules.ResolveStudentMeeting(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}
