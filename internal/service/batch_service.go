package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

// CreateBatchRequest is the payload for creating a batch.
type CreateBatchRequest struct {
	CourseID     int64     `json:"course_id" validate:"required,gt=0"`
	Name         string    `json:"batch_name" validate:"required"`
	NumStudents  int       `json:"num_students" validate:"gte=0"`
	InstructorID int64     `json:"instructor_id" validate:"required,gt=0"`
	Timing       *string   `json:"timing"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

type batchStore interface {
	FindByID(ctx context.Context, id int64) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	ListDetailsByCourse(ctx context.Context, courseID int64) ([]models.BatchDetail, error)
}

type batchCourseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type batchUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// BatchService manages batch creation and listing.
type BatchService struct {
	store     batchStore
	courses   batchCourseReader
	users     batchUserReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchService builds a BatchService.
func NewBatchService(store batchStore, courses batchCourseReader, users batchUserReader, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{store: store, courses: courses, users: users, validator: validate, logger: logger}
}

// Create adds a batch to a course. The instructor must exist, hold the
// instructor role, and own the course.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	instructor, err := s.users.FindByID(ctx, req.InstructorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if !instructor.IsInstructor() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not an instructor")
	}
	if course.InstructorID != instructor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "instructor does not own this course")
	}

	batch := &models.Batch{
		CourseID:     req.CourseID,
		Name:         req.Name,
		NumStudents:  req.NumStudents,
		InstructorID: req.InstructorID,
		Timing:       req.Timing,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := s.store.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}

	s.logger.Info("batch created", zap.Int64("batch_id", batch.ID), zap.Int64("course_id", batch.CourseID))
	return batch, nil
}

// ListByCourse returns every batch of a course.
func (s *BatchService) ListByCourse(ctx context.Context, courseID int64) ([]models.BatchDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	batches, err := s.store.ListDetailsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	if batches == nil {
		batches = []models.BatchDetail{}
	}
	return batches, nil
}
