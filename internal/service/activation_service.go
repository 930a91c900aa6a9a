package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

type activationStore interface {
	Toggle(ctx context.Context, batchID, lessonID int64, activatedBy *int64) (bool, error)
	ListForBatch(ctx context.Context, batchID, courseID int64) ([]models.LessonActivation, error)
}

type activationBatchReader interface {
	FindByID(ctx context.Context, id int64) (*models.Batch, error)
}

type activationLessonReader interface {
	FindLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
}

// ActivationService controls per-batch lesson visibility.
type ActivationService struct {
	store   activationStore
	batches activationBatchReader
	lessons activationLessonReader
	logger  *zap.Logger
}

// NewActivationService builds an ActivationService.
func NewActivationService(store activationStore, batches activationBatchReader, lessons activationLessonReader, logger *zap.Logger) *ActivationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivationService{store: store, batches: batches, lessons: lessons, logger: logger}
}

// Toggle flips a lesson's activation for a batch. The lesson must belong to
// the batch's course; the call is a strict involution, so toggling twice
// restores the original state.
func (s *ActivationService) Toggle(ctx context.Context, batchID, lessonID int64, actorID *int64) (*models.ToggleResult, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	lesson, err := s.lessons.FindLessonByID(ctx, lessonID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if lesson.CourseID != batch.CourseID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson does not belong to the batch's course")
	}

	active, err := s.store.Toggle(ctx, batchID, lessonID, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle lesson")
	}

	s.logger.Info("lesson activation toggled",
		zap.Int64("batch_id", batchID),
		zap.Int64("lesson_id", lessonID),
		zap.Bool("is_active", active))
	return &models.ToggleResult{LessonID: lessonID, BatchID: batchID, IsActive: active}, nil
}

// ListForBatch returns every lesson of the batch's course with its
// activation state for the batch, ordered by lesson id.
func (s *ActivationService) ListForBatch(ctx context.Context, batchID int64) ([]models.LessonActivation, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	lessons, err := s.store.ListForBatch(ctx, batchID, batch.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	if lessons == nil {
		lessons = []models.LessonActivation{}
	}
	return lessons, nil
}
