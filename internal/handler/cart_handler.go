package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/response"
)

type cartService interface {
	AddToCart(ctx context.Context, studentID, courseID int64) (*models.CartItem, error)
	ViewCart(ctx context.Context, studentID int64) ([]models.CartCourse, error)
	RemoveFromCart(ctx context.Context, studentID, courseID int64) error
	Purchase(ctx context.Context, studentID, courseID int64) (*models.PurchasedCourse, error)
	ListPurchased(ctx context.Context, studentID int64) ([]models.CourseDetail, error)
}

// CartHandler exposes cart and purchase endpoints for students.
type CartHandler struct {
	cart cartService
}

// NewCartHandler builds a new handler.
func NewCartHandler(cart cartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Add godoc
// @Summary Add a course to the caller's cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 201 {object} response.Envelope
// @Router /cart/{courseId} [post]
func (h *CartHandler) Add(c *gin.Context) {
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
	item, err := h.cart.AddToCart(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// View godoc
// @Summary List the caller's cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courses, err := h.cart.ViewCart(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Remove godoc
// @Summary Remove a course from the caller's cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 204
// @Router /cart/{courseId} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
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
	if err := h.cart.RemoveFromCart(c.Request.Context(), claims.UserID, courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Purchase godoc
// @Summary Purchase a course from the caller's cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /cart/{courseId}/purchase [post]
func (h *CartHandler) Purchase(c *gin.Context) {
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
	purchase, err := h.cart.Purchase(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, purchase, nil)
}

// Purchased godoc
// @Summary List the caller's purchased courses
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /purchases [get]
func (h *CartHandler) Purchased(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courses, err := h.cart.ListPurchased(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
