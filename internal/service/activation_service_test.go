package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

type activationStoreStub struct {
	active    map[[2]int64]bool
	list      []models.LessonActivation
	toggleErr error
	listErr   error
}

func (s *activationStoreStub) Toggle(ctx context.Context, batchID, lessonID int64, activatedBy *int64) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	if s.active == nil {
		s.active = make(map[[2]int64]bool)
	}
	key := [2]int64{batchID, lessonID}
	s.active[key] = !s.active[key]
	return s.active[key], nil
}

func (s *activationStoreStub) ListForBatch(ctx context.Context, batchID, courseID int64) ([]models.LessonActivation, error) {
	return s.list, s.listErr
}

type batchReaderStub struct {
	batches map[int64]*models.Batch
}

func (s batchReaderStub) FindByID(ctx context.Context, id int64) (*models.Batch, error) {
	if batch, ok := s.batches[id]; ok {
		return batch, nil
	}
	return nil, sql.ErrNoRows
}

type lessonReaderStub struct {
	lessons map[int64]*models.Lesson
}

func (s lessonReaderStub) FindLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	if lesson, ok := s.lessons[id]; ok {
		return lesson, nil
	}
	return nil, sql.ErrNoRows
}

func newActivationFixtures() (*activationStoreStub, batchReaderStub, lessonReaderStub) {
	store := &activationStoreStub{}
	batches := batchReaderStub{batches: map[int64]*models.Batch{
		10: {ID: 10, CourseID: 3, Name: "Morning Batch"},
	}}
	lessons := lessonReaderStub{lessons: map[int64]*models.Lesson{
		4: {ID: 4, CourseID: 3, Title: "Intro"},
		7: {ID: 7, CourseID: 5, Title: "Other Course Lesson"},
	}}
	return store, batches, lessons
}

func TestToggleIsAnInvolution(t *testing.T) {
	store, batches, lessons := newActivationFixtures()
	svc := NewActivationService(store, batches, lessons, zap.NewNop())

	first, err := svc.Toggle(context.Background(), 10, 4, nil)
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := svc.Toggle(context.Background(), 10, 4, nil)
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	third, err := svc.Toggle(context.Background(), 10, 4, nil)
	require.NoError(t, err)
	assert.True(t, third.IsActive)
}

func TestToggleRejectsCrossCourseLesson(t *testing.T) {
	store, batches, lessons := newActivationFixtures()
	svc := NewActivationService(store, batches, lessons, zap.NewNop())

	_, err := svc.Toggle(context.Background(), 10, 7, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.active)
}

func TestToggleRejectsMissingBatch(t *testing.T) {
	store, batches, lessons := newActivationFixtures()
	svc := NewActivationService(store, batches, lessons, zap.NewNop())

	_, err := svc.Toggle(context.Background(), 99, 4, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestToggleRejectsMissingLesson(t *testing.T) {
	store, batches, lessons := newActivationFixtures()
	svc := NewActivationService(store, batches, lessons, zap.NewNop())

	_, err := svc.Toggle(context.Background(), 10, 99, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListForBatchReturnsOrderedLessons(t *testing.T) {
	store, batches, lessons := newActivationFixtures()
	activatedAt := time.Now()
	store.list = []models.LessonActivation{
		{LessonID: 1, Title: "Intro", IsActive: true, ActivatedAt: &activatedAt},
		{LessonID: 2, Title: "Structs", IsActive: false},
	}
	svc := NewActivationService(store, batches, lessons, zap.NewNop())

	result, err := svc.ListForBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, result[0].IsActive)
	assert.False(t, result[1].IsActive)
}

func TestListForBatchRejectsMissingBatch(t *testing.T) {
	store, batches, lessons := newActivationFixtures()
	svc := NewActivationService(store, batches, lessons, zap.NewNop())

	_, err := svc.ListForBatch(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
