package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

// Informational messages returned with recommendation payloads.
const (
	msgNewUser         = "Showing all available courses (new user)"
	msgNoRecommended   = "No recommended courses available"
	msgRecommended     = "Showing recommended courses"
	msgAllPurchased    = "All courses purchased"
	msgBothPartitions  = "Showing purchased and recommended courses"
	catalogCachePrefix = "catalog:"
)

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error)
	ListDetails(ctx context.Context) ([]models.CourseDetail, error)
	ListDetailsIn(ctx context.Context, ids []int64) ([]models.CourseDetail, error)
	ListDetailsExcluding(ctx context.Context, ids []int64) ([]models.CourseDetail, error)
}

type purchaseReader interface {
	ListPurchasedCourseIDs(ctx context.Context, studentID int64) ([]int64, error)
	EnrollmentCounts(ctx context.Context) ([]models.EnrollmentCount, error)
}

// CatalogService serves course listings and recommendation views.
type CatalogService struct {
	courses   courseReader
	purchases purchaseReader
	cache     *CacheService
	logger    *zap.Logger
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(courses courseReader, purchases purchaseReader, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{courses: courses, purchases: purchases, cache: cache, logger: logger}
}

// ListCourses returns the whole catalog with enrollment counts.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.CourseDetail, error) {
	cacheKey := catalogCachePrefix + "courses"
	var cached []models.CourseDetail
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	courses, err := s.courses.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if err := s.attachEnrollments(ctx, courses); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, courses, 0)
	return courses, nil
}

// GetCourse returns one course with instructor name and enrollment count.
func (s *CatalogService) GetCourse(ctx context.Context, courseID int64) (*models.CourseDetail, error) {
	course, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	detail := []models.CourseDetail{*course}
	if err := s.attachEnrollments(ctx, detail); err != nil {
		return nil, err
	}
	return &detail[0], nil
}

// RecommendedFor returns the courses the student has not purchased.
// "Recommended" is set subtraction over the catalog, not a ranking: an empty
// purchased set returns the whole catalog so new users see everything.
func (s *CatalogService) RecommendedFor(ctx context.Context, studentID int64) (*models.Recommendation, error) {
	cacheKey := fmt.Sprintf("%srecommended:%d", catalogCachePrefix, studentID)
	var cached models.Recommendation
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	purchasedIDs, err := s.purchases.ListPurchasedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchases")
	}

	rec := &models.Recommendation{Courses: []models.CourseDetail{}}
	if len(purchasedIDs) == 0 {
		rec.Courses, err = s.courses.ListDetails(ctx)
		rec.Message = msgNewUser
	} else {
		rec.Courses, err = s.courses.ListDetailsExcluding(ctx, purchasedIDs)
		if err == nil && len(rec.Courses) == 0 {
			rec.Message = msgNoRecommended
		} else {
			rec.Message = msgRecommended
		}
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if err := s.attachEnrollments(ctx, rec.Courses); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, rec, 0)
	return rec, nil
}

// PurchasedAndRecommended returns both sides of the purchased/not-purchased
// partition with an informational message.
func (s *CatalogService) PurchasedAndRecommended(ctx context.Context, studentID int64) (*models.CatalogSplit, error) {
	cacheKey := fmt.Sprintf("%ssplit:%d", catalogCachePrefix, studentID)
	var cached models.CatalogSplit
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	purchasedIDs, err := s.purchases.ListPurchasedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchases")
	}

	split := &models.CatalogSplit{
		Purchased:   []models.CourseDetail{},
		Recommended: []models.CourseDetail{},
	}

	if len(purchasedIDs) == 0 {
		split.Recommended, err = s.courses.ListDetails(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
		}
		split.Message = msgNewUser
	} else {
		split.Purchased, err = s.courses.ListDetailsIn(ctx, purchasedIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchased courses")
		}
		split.Recommended, err = s.courses.ListDetailsExcluding(ctx, purchasedIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recommended courses")
		}
		if len(split.Recommended) == 0 {
			split.Message = msgAllPurchased
		} else {
			split.Message = msgBothPartitions
		}
	}

	if err := s.attachEnrollments(ctx, split.Purchased); err != nil {
		return nil, err
	}
	if err := s.attachEnrollments(ctx, split.Recommended); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, split, 0)
	return split, nil
}

// InvalidateCatalog drops every cached catalog payload. Called after any
// purchase mutation.
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, catalogCachePrefix+"*"); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// attachEnrollments merges group-by purchase tallies into course details by
// id. Courses absent from the tally keep the zero default.
func (s *CatalogService) attachEnrollments(ctx context.Context, courses []models.CourseDetail) error {
	if len(courses) == 0 {
		return nil
	}
	counts, err := s.purchases.EnrollmentCounts(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	byCourse := make(map[int64]int, len(counts))
	for _, c := range counts {
		byCourse[c.CourseID] = c.Total
	}
	for i := range courses {
		courses[i].TotalEnrollments = byCourse[courses[i].ID]
	}
	return nil
}
