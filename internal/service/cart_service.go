package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

type cartStore interface {
	FindCartItem(ctx context.Context, studentID, courseID int64) (*models.CartItem, error)
	AddCartItem(ctx context.Context, item *models.CartItem) error
	RemoveCartItem(ctx context.Context, studentID, courseID int64) (bool, error)
	ListCartCourses(ctx context.Context, studentID int64) ([]models.CartCourse, error)
	HasPurchased(ctx context.Context, studentID, courseID int64) (bool, error)
	Purchase(ctx context.Context, studentID, courseID int64) (*models.PurchasedCourse, error)
	ListPurchasedCourseIDs(ctx context.Context, studentID int64) ([]int64, error)
}

type cartCourseFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ListDetailsIn(ctx context.Context, ids []int64) ([]models.CourseDetail, error)
}

// CartService manages the cart and the cart-to-purchase transition.
type CartService struct {
	store   cartStore
	courses cartCourseFinder
	catalog *CatalogService
	logger  *zap.Logger
}

// NewCartService builds a CartService.
func NewCartService(store cartStore, courses cartCourseFinder, catalog *CatalogService, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{store: store, courses: courses, catalog: catalog, logger: logger}
}

// AddToCart puts a course in the student's cart. Already-purchased and
// already-carted courses are rejected before any write.
func (s *CartService) AddToCart(ctx context.Context, studentID, courseID int64) (*models.CartItem, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	purchased, err := s.store.HasPurchased(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check purchases")
	}
	if purchased {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already purchased")
	}

	if _, err := s.store.FindCartItem(ctx, studentID, courseID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already in cart")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check cart")
	}

	item := &models.CartItem{StudentID: studentID, CourseID: courseID}
	if err := s.store.AddCartItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add to cart")
	}
	return item, nil
}

// ViewCart lists the courses in the student's cart.
func (s *CartService) ViewCart(ctx context.Context, studentID int64) ([]models.CartCourse, error) {
	courses, err := s.store.ListCartCourses(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cart")
	}
	if courses == nil {
		courses = []models.CartCourse{}
	}
	return courses, nil
}

// RemoveFromCart deletes a cart entry.
func (s *CartService) RemoveFromCart(ctx context.Context, studentID, courseID int64) error {
	removed, err := s.store.RemoveCartItem(ctx, studentID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove from cart")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "course not in cart")
	}
	return nil
}

// Purchase converts a cart entry into a purchase. The course must be in the
// cart and not yet purchased; the mutation is a single transaction.
func (s *CartService) Purchase(ctx context.Context, studentID, courseID int64) (*models.PurchasedCourse, error) {
	if _, err := s.store.FindCartItem(ctx, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not in cart")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check cart")
	}

	purchased, err := s.store.HasPurchased(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check purchases")
	}
	if purchased {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already purchased")
	}

	purchase, err := s.store.Purchase(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete purchase")
	}

	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
	s.logger.Info("course purchased", zap.Int64("student_id", studentID), zap.Int64("course_id", courseID))
	return purchase, nil
}

// ListPurchased returns the student's purchased courses with details.
func (s *CartService) ListPurchased(ctx context.Context, studentID int64) ([]models.CourseDetail, error) {
	ids, err := s.store.ListPurchasedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchases")
	}
	if len(ids) == 0 {
		return []models.CourseDetail{}, nil
	}
	courses, err := s.courses.ListDetailsIn(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	return courses, nil
}
