package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/internal/service"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/response"
)

type batchService interface {
	Create(ctx context.Context, req service.CreateBatchRequest) (*models.Batch, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.BatchDetail, error)
}

type assignmentService interface {
	AssignBatch(ctx context.Context, req service.AssignBatchRequest) (*models.AssignmentOutcome, error)
	UpdateBatchAssignment(ctx context.Context, req service.AssignBatchRequest) (*models.RepairOutcome, error)
	GetRoster(ctx context.Context, courseID int64) (*models.Roster, error)
	ExportRoster(ctx context.Context, courseID int64, format string) ([]byte, string, error)
}

// BatchHandler exposes batch management and assignment endpoints.
type BatchHandler struct {
	batches     batchService
	assignments assignmentService
}

// NewBatchHandler builds a new handler.
func NewBatchHandler(batches batchService, assignments assignmentService) *BatchHandler {
	return &BatchHandler{batches: batches, assignments: assignments}
}

// Create godoc
// @Summary Create a batch for a course
// @Tags Batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}
	batch, err := h.batches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// ListByCourse godoc
// @Summary List batches of a course
// @Tags Batches
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/batches [get]
func (h *BatchHandler) ListByCourse(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	batches, err := h.batches.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}

// Assign godoc
// @Summary Assign students to a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.AssignBatchRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /batches/assign [post]
func (h *BatchHandler) Assign(c *gin.Context) {
	var req service.AssignBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	outcome, err := h.assignments.AssignBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// UpdateAssignment godoc
// @Summary Repair student assignments onto a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.AssignBatchRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /batches/update [put]
func (h *BatchHandler) UpdateAssignment(c *gin.Context) {
	var req service.AssignBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	outcome, err := h.assignments.UpdateBatchAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Roster godoc
// @Summary Get the student roster of a course
// @Tags Batches
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/roster [get]
func (h *BatchHandler) Roster(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	roster, err := h.assignments.GetRoster(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// ExportRoster godoc
// @Summary Export the course roster as CSV or PDF
// @Tags Batches
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /courses/{courseId}/roster/export [get]
func (h *BatchHandler) ExportRoster(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", service.RosterFormatCSV)
	payload, contentType, err := h.assignments.ExportRoster(c.Request.Context(), courseID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "roster-" + strconv.FormatInt(courseID, 10) + "." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
