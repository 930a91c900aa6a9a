package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
)

type catalogCourseStub struct {
	all []models.CourseDetail
}

func (s catalogCourseStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	for _, c := range s.all {
		if c.ID == id {
			course := c.Course
			return &course, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s catalogCourseStub) FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error) {
	for _, c := range s.all {
		if c.ID == id {
			detail := c
			return &detail, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s catalogCourseStub) ListDetails(ctx context.Context) ([]models.CourseDetail, error) {
	return append([]models.CourseDetail{}, s.all...), nil
}

func (s catalogCourseStub) ListDetailsIn(ctx context.Context, ids []int64) ([]models.CourseDetail, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var result []models.CourseDetail
	for _, c := range s.all {
		if want[c.ID] {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s catalogCourseStub) ListDetailsExcluding(ctx context.Context, ids []int64) ([]models.CourseDetail, error) {
	skip := make(map[int64]bool, len(ids))
	for _, id := range ids {
		skip[id] = true
	}
	var result []models.CourseDetail
	for _, c := range s.all {
		if !skip[c.ID] {
			result = append(result, c)
		}
	}
	return result, nil
}

type catalogPurchaseStub struct {
	purchased map[int64][]int64
	counts    []models.EnrollmentCount
}

func (s catalogPurchaseStub) ListPurchasedCourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return s.purchased[studentID], nil
}

func (s catalogPurchaseStub) EnrollmentCounts(ctx context.Context) ([]models.EnrollmentCount, error) {
	return s.counts, nil
}

func catalogOf(ids ...int64) catalogCourseStub {
	var all []models.CourseDetail
	for _, id := range ids {
		all = append(all, models.CourseDetail{Course: models.Course{ID: id}})
	}
	return catalogCourseStub{all: all}
}

func courseIDs(courses []models.CourseDetail) []int64 {
	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestRecommendedForIsSetSubtraction(t *testing.T) {
	courses := catalogOf(1, 2, 3, 4)
	purchases := catalogPurchaseStub{purchased: map[int64][]int64{5: {1, 3}}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	rec, err := svc.RecommendedFor(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, courseIDs(rec.Courses))
	assert.Equal(t, msgRecommended, rec.Message)
}

func TestRecommendedForColdStartReturnsAllCourses(t *testing.T) {
	courses := catalogOf(1, 2, 3, 4)
	purchases := catalogPurchaseStub{purchased: map[int64][]int64{}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	rec, err := svc.RecommendedFor(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, courseIDs(rec.Courses))
	assert.Equal(t, msgNewUser, rec.Message)
}

func TestRecommendedForEverythingPurchased(t *testing.T) {
	courses := catalogOf(1, 2)
	purchases := catalogPurchaseStub{purchased: map[int64][]int64{5: {1, 2}}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	rec, err := svc.RecommendedFor(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, rec.Courses)
	assert.Equal(t, msgNoRecommended, rec.Message)
}

func TestPurchasedAndRecommendedPartitions(t *testing.T) {
	courses := catalogOf(1, 2, 3, 4)
	purchases := catalogPurchaseStub{purchased: map[int64][]int64{5: {1, 3}}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	split, err := svc.PurchasedAndRecommended(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, courseIDs(split.Purchased))
	assert.Equal(t, []int64{2, 4}, courseIDs(split.Recommended))
	assert.Equal(t, msgBothPartitions, split.Message)
}

func TestPurchasedAndRecommendedAllPurchased(t *testing.T) {
	courses := catalogOf(1, 2)
	purchases := catalogPurchaseStub{purchased: map[int64][]int64{5: {1, 2}}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	split, err := svc.PurchasedAndRecommended(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, courseIDs(split.Purchased))
	assert.Empty(t, split.Recommended)
	assert.Equal(t, msgAllPurchased, split.Message)
}

func TestPurchasedAndRecommendedColdStart(t *testing.T) {
	courses := catalogOf(1, 2, 3)
	purchases := catalogPurchaseStub{purchased: map[int64][]int64{}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	split, err := svc.PurchasedAndRecommended(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, split.Purchased)
	assert.Equal(t, []int64{1, 2, 3}, courseIDs(split.Recommended))
	assert.Equal(t, msgNewUser, split.Message)
}

func TestListCoursesMergesEnrollmentCountsWithZeroDefault(t *testing.T) {
	courses := catalogOf(1, 2, 3)
	purchases := catalogPurchaseStub{counts: []models.EnrollmentCount{
		{CourseID: 1, Total: 4},
		{CourseID: 3, Total: 1},
	}}
	svc := NewCatalogService(courses, purchases, nil, zap.NewNop())

	result, err := svc.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, 4, result[0].TotalEnrollments)
	assert.Equal(t, 0, result[1].TotalEnrollments)
	assert.Equal(t, 1, result[2].TotalEnrollments)
}
