package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/pkg/config"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/export"
)

// AssignBatchRequest is the payload for batch assignment calls.
type AssignBatchRequest struct {
	BatchID    int64   `json:"batch_id" validate:"required,gt=0"`
	StudentIDs []int64 `json:"student_ids" validate:"required,min=1,dive,gt=0"`
}

type assignmentStore interface {
	FindByID(ctx context.Context, id int64) (*models.Batch, error)
	AssignStudents(ctx context.Context, batch *models.Batch, studentIDs []int64) (*models.AssignmentOutcome, error)
	RepairAssignments(ctx context.Context, batch *models.Batch, studentIDs []int64, courseScoped bool) (*models.RepairOutcome, error)
	ListRoster(ctx context.Context, courseID int64) ([]models.RosterEntry, error)
}

type assignmentUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type assignmentCourseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type rosterExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type rosterPDFExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// AssignmentService enforces the one-batch-per-course invariant across
// assignment flows and derives course rosters.
type AssignmentService struct {
	store     assignmentStore
	users     assignmentUserReader
	courses   assignmentCourseReader
	csv       rosterExporter
	pdf       rosterPDFExporter
	cfg       config.AssignmentsConfig
	exportCfg config.ExportsConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService builds an AssignmentService.
func NewAssignmentService(
	store assignmentStore,
	users assignmentUserReader,
	courses assignmentCourseReader,
	csv rosterExporter,
	pdf rosterPDFExporter,
	cfg config.AssignmentsConfig,
	exportCfg config.ExportsConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		store:     store,
		users:     users,
		courses:   courses,
		csv:       csv,
		pdf:       pdf,
		cfg:       cfg,
		exportCfg: exportCfg,
		validator: validate,
		logger:    logger,
	}
}

// AssignBatch places students into a batch. Each student lands in exactly
// one of three buckets: newly assigned, moved from another batch of the same
// course, or skipped because they already sit in the target batch.
func (s *AssignmentService) AssignBatch(ctx context.Context, req AssignBatchRequest) (*models.AssignmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	batch, err := s.loadBatch(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureStudents(ctx, req.StudentIDs); err != nil {
		return nil, err
	}

	outcome, err := s.store.AssignStudents(ctx, batch, req.StudentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign students")
	}

	s.logger.Info("batch assignment completed",
		zap.Int64("batch_id", batch.ID),
		zap.Int("assigned", len(outcome.Assigned)),
		zap.Int("moved", len(outcome.Moved)),
		zap.Int("skipped", len(outcome.Skipped)))
	return outcome, nil
}

// UpdateBatchAssignment repairs assignment rows onto the batch: the first
// existing row per student is kept (and moved if needed), duplicates are
// deleted, missing rows are created. The lookup spans all courses unless
// course-scoped lookup is configured.
func (s *AssignmentService) UpdateBatchAssignment(ctx context.Context, req AssignBatchRequest) (*models.RepairOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	batch, err := s.loadBatch(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureStudents(ctx, req.StudentIDs); err != nil {
		return nil, err
	}

	outcome, err := s.store.RepairAssignments(ctx, batch, req.StudentIDs, s.cfg.CourseScopedLookup)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignments")
	}

	s.logger.Info("batch assignment repair completed",
		zap.Int64("batch_id", batch.ID),
		zap.Int("assigned_new", len(outcome.AssignedNew)),
		zap.Int("moved", len(outcome.Moved)))
	return outcome, nil
}

// GetRoster returns every purchaser of the course with assignment status.
// The underlying join can yield duplicate rows per student; the first row
// wins unless a later row carries a batch name the first one lacked.
func (s *AssignmentService) GetRoster(ctx context.Context, courseID int64) (*models.Roster, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	entries, err := s.store.ListRoster(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	students := dedupeRoster(entries)
	for i := range students {
		if students[i].BatchName != nil {
			students[i].Status = models.AssignmentStatusAssigned
		} else {
			students[i].Status = models.AssignmentStatusUnassigned
		}
	}

	return &models.Roster{CourseID: courseID, Total: len(students), Students: students}, nil
}

// Export formats supported by ExportRoster.
const (
	RosterFormatCSV = "csv"
	RosterFormatPDF = "pdf"
)

// ExportRoster renders the course roster as CSV or PDF.
func (s *AssignmentService) ExportRoster(ctx context.Context, courseID int64, format string) ([]byte, string, error) {
	if !s.exportCfg.Enabled {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "roster exports are disabled")
	}

	roster, err := s.GetRoster(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Student ID", "Name", "Email", "Batch", "Status", "Purchased At"},
	}
	for _, entry := range roster.Students {
		batchName := ""
		if entry.BatchName != nil {
			batchName = *entry.BatchName
		}
		data.Rows = append(data.Rows, []string{
			fmt.Sprintf("%d", entry.StudentID),
			entry.Name,
			entry.Email,
			batchName,
			entry.Status,
			entry.PurchasedAt.Format(time.RFC3339),
		})
	}

	switch format {
	case RosterFormatCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case RosterFormatPDF:
		payload, err := s.pdf.Render(data, fmt.Sprintf("Course %d Roster", courseID))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *AssignmentService) loadBatch(ctx context.Context, batchID int64) (*models.Batch, error) {
	batch, err := s.store.FindByID(ctx, batchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

func (s *AssignmentService) ensureStudents(ctx context.Context, studentIDs []int64) error {
	for _, id := range studentIDs {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", id))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		if !user.IsStudent() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("user %d is not a student", id))
		}
	}
	return nil
}

// dedupeRoster collapses duplicate join rows per student, preferring a row
// with a batch name over one without.
func dedupeRoster(entries []models.RosterEntry) []models.RosterEntry {
	seen := make(map[int64]int, len(entries))
	result := make([]models.RosterEntry, 0, len(entries))
	for _, entry := range entries {
		idx, ok := seen[entry.StudentID]
		if !ok {
			seen[entry.StudentID] = len(result)
			result = append(result, entry)
			continue
		}
		if result[idx].BatchName == nil && entry.BatchName != nil {
			result[idx] = entry
		}
	}
	return result
}
