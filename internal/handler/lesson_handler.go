package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/response"
)

type activationService interface {
	Toggle(ctx context.Context, batchID, lessonID int64, actorID *int64) (*models.ToggleResult, error)
	ListForBatch(ctx context.Context, batchID int64) ([]models.LessonActivation, error)
}

// LessonHandler exposes per-batch lesson activation endpoints.
type LessonHandler struct {
	activations activationService
}

// NewLessonHandler builds a new handler.
func NewLessonHandler(activations activationService) *LessonHandler {
	return &LessonHandler{activations: activations}
}

// Toggle godoc
// @Summary Toggle a lesson's activation for a batch
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /lessons/toggle [post]
func (h *LessonHandler) Toggle(c *gin.Context) {
	var req struct {
		BatchID  int64 `json:"batch_id" binding:"required"`
		LessonID int64 `json:"lesson_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}

	var actorID *int64
	if claims := claimsFromContext(c); claims != nil {
		actorID = &claims.UserID
	}

	result, err := h.activations.Toggle(c.Request.Context(), req.BatchID, req.LessonID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListForBatch godoc
// @Summary List a batch's lessons with activation state
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param batchId path int true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{batchId}/lessons [get]
func (h *LessonHandler) ListForBatch(c *gin.Context) {
	batchID, err := pathID(c, "batchId")
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, err := h.activations.ListForBatch(c.Request.Context(), batchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}
