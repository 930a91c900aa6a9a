package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kasadra/learning-api/internal/middleware"
	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/internal/service"
)

// Handlers groups every HTTP handler registered on the API surface.
type Handlers struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Batch    *BatchHandler
	Lesson   *LessonHandler
	Schedule *ScheduleHandler
	Metrics  *MetricsHandler
}

// RegisterRoutes attaches all API routes under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	// Public surface.
	api.POST("/auth/register/student", h.Auth.RegisterStudent)
	api.POST("/auth/register/instructor", h.Auth.RegisterInstructor)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.GET("/courses", h.Catalog.List)
	api.GET("/courses/:courseId", h.Catalog.Get)

	// Anything past this point carries a bearer token.
	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Profile)
	authed.PUT("/auth/me", h.Auth.UpdateProfile)

	authed.GET("/courses/:courseId/batches", h.Batch.ListByCourse)
	authed.GET("/batches/:batchId/lessons", h.Lesson.ListForBatch)

	// Student surface.
	student := authed.Group("")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	student.GET("/cart", h.Cart.View)
	student.POST("/cart/:courseId", h.Cart.Add)
	student.DELETE("/cart/:courseId", h.Cart.Remove)
	student.POST("/cart/:courseId/purchase", h.Cart.Purchase)
	student.GET("/purchases", h.Cart.Purchased)
	student.GET("/courses/recommended", h.Catalog.Recommended)
	student.GET("/courses/purchased-and-recommended", h.Catalog.PurchasedAndRecommended)
	student.GET("/courses/:courseId/schedule", h.Schedule.StudentSchedule)
	student.GET("/courses/:courseId/meeting", h.Schedule.StudentMeeting)

	// Instructor surface.
	instructor := authed.Group("")
	instructor.Use(middleware.RequireRoles(models.RoleInstructor))
	instructor.POST("/batches", h.Batch.Create)
	instructor.POST("/batches/assign", h.Batch.Assign)
	instructor.PUT("/batches/update", h.Batch.UpdateAssignment)
	instructor.GET("/courses/:courseId/roster", h.Batch.Roster)
	instructor.GET("/courses/:courseId/roster/export", h.Batch.ExportRoster)
	instructor.POST("/lessons/toggle", h.Lesson.Toggle)
	instructor.POST("/calendars", h.Schedule.CreateCalendar)
	instructor.PUT("/calendars/:calendarId", h.Schedule.UpdateCalendar)
	instructor.DELETE("/calendars/:calendarId", h.Schedule.DeleteCalendar)
	instructor.GET("/courses/:courseId/calendar", h.Schedule.ListCalendarByCourse)
	instructor.POST("/meetings", h.Schedule.CreateMeetingLink)
	instructor.GET("/meetings", h.Schedule.ListMeetingLinks)
	instructor.PUT("/meetings/:meetingId", h.Schedule.UpdateMeetingLink)
	instructor.DELETE("/meetings/:meetingId", h.Schedule.DeleteMeetingLink)
}
