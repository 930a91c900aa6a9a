package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/response"
)

type catalogService interface {
	ListCourses(ctx context.Context) ([]models.CourseDetail, error)
	GetCourse(ctx context.Context, courseID int64) (*models.CourseDetail, error)
	RecommendedFor(ctx context.Context, studentID int64) (*models.Recommendation, error)
	PurchasedAndRecommended(ctx context.Context, studentID int64) (*models.CatalogSplit, error)
}

// CatalogHandler exposes course catalog and recommendation endpoints.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List all courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) List(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get a course by id
// @Tags Courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.catalog.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Recommended godoc
// @Summary List courses the caller has not purchased
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses/recommended [get]
func (h *CatalogHandler) Recommended(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	rec, err := h.catalog.RecommendedFor(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil, map[string]interface{}{"message": rec.Message})
}

// PurchasedAndRecommended godoc
// @Summary List the caller's purchased and recommended courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses/purchased-and-recommended [get]
func (h *CatalogHandler) PurchasedAndRecommended(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	split, err := h.catalog.PurchasedAndRecommended(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, split, nil, map[string]interface{}{"message": split.Message})
}
