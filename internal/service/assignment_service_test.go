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
	"github.com/kasadra/learning-api/pkg/config"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
	"github.com/kasadra/learning-api/pkg/export"
)

type assignmentStoreStub struct {
	batch         *models.Batch
	batchErr      error
	outcome       *models.AssignmentOutcome
	assignErr     error
	repairOutcome *models.RepairOutcome
	repairErr     error
	roster        []models.RosterEntry
	rosterErr     error

	assignedStudents []int64
	repairScoped     *bool
}

func (s *assignmentStoreStub) FindByID(ctx context.Context, id int64) (*models.Batch, error) {
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	if s.batch == nil || s.batch.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.batch, nil
}

func (s *assignmentStoreStub) AssignStudents(ctx context.Context, batch *models.Batch, studentIDs []int64) (*models.AssignmentOutcome, error) {
	s.assignedStudents = studentIDs
	return s.outcome, s.assignErr
}

func (s *assignmentStoreStub) RepairAssignments(ctx context.Context, batch *models.Batch, studentIDs []int64, courseScoped bool) (*models.RepairOutcome, error) {
	s.repairScoped = &courseScoped
	return s.repairOutcome, s.repairErr
}

func (s *assignmentStoreStub) ListRoster(ctx context.Context, courseID int64) ([]models.RosterEntry, error) {
	return s.roster, s.rosterErr
}

type userReaderStub struct {
	users map[int64]*models.User
}

func (s userReaderStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

type courseReaderStub struct {
	courses map[int64]*models.Course
}

func (s courseReaderStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := s.courses[id]; ok {
		return course, nil
	}
	return nil, sql.ErrNoRows
}

func newAssignmentService(store *assignmentStoreStub, users userReaderStub, courses courseReaderStub, cfg config.AssignmentsConfig) *AssignmentService {
	return NewAssignmentService(store, users, courses,
		export.NewCSVExporter(), export.NewPDFExporter(),
		cfg, config.ExportsConfig{Enabled: true}, nil, zap.NewNop())
}

func studentUser(id int64) *models.User {
	return &models.User{ID: id, Role: models.RoleStudent}
}

func TestAssignBatchReturnsOutcomeBuckets(t *testing.T) {
	store := &assignmentStoreStub{
		batch: &models.Batch{ID: 10, CourseID: 3, Name: "Morning Batch"},
		outcome: &models.AssignmentOutcome{
			BatchName: "Morning Batch",
			Assigned:  []int64{1},
			Moved:     []int64{2},
			Skipped:   []int64{3},
		},
	}
	users := userReaderStub{users: map[int64]*models.User{
		1: studentUser(1), 2: studentUser(2), 3: studentUser(3),
	}}
	svc := newAssignmentService(store, users, courseReaderStub{}, config.AssignmentsConfig{})

	outcome, err := svc.AssignBatch(context.Background(), AssignBatchRequest{BatchID: 10, StudentIDs: []int64{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, outcome.Assigned)
	assert.Equal(t, []int64{2}, outcome.Moved)
	assert.Equal(t, []int64{3}, outcome.Skipped)
	assert.Equal(t, []int64{1, 2, 3}, store.assignedStudents)
}

func TestAssignBatchRejectsMissingBatch(t *testing.T) {
	store := &assignmentStoreStub{}
	svc := newAssignmentService(store, userReaderStub{}, courseReaderStub{}, config.AssignmentsConfig{})

	_, err := svc.AssignBatch(context.Background(), AssignBatchRequest{BatchID: 99, StudentIDs: []int64{1}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.assignedStudents)
}

func TestAssignBatchRejectsNonStudent(t *testing.T) {
	store := &assignmentStoreStub{batch: &models.Batch{ID: 10, CourseID: 3}}
	users := userReaderStub{users: map[int64]*models.User{
		1: {ID: 1, Role: models.RoleInstructor},
	}}
	svc := newAssignmentService(store, users, courseReaderStub{}, config.AssignmentsConfig{})

	_, err := svc.AssignBatch(context.Background(), AssignBatchRequest{BatchID: 10, StudentIDs: []int64{1}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignBatchRejectsEmptyStudentList(t *testing.T) {
	svc := newAssignmentService(&assignmentStoreStub{}, userReaderStub{}, courseReaderStub{}, config.AssignmentsConfig{})

	_, err := svc.AssignBatch(context.Background(), AssignBatchRequest{BatchID: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateBatchAssignmentPassesConfiguredScope(t *testing.T) {
	store := &assignmentStoreStub{
		batch:         &models.Batch{ID: 10, CourseID: 3, Name: "Morning Batch"},
		repairOutcome: &models.RepairOutcome{BatchName: "Morning Batch", AssignedNew: []int64{1}, Moved: []int64{}},
	}
	users := userReaderStub{users: map[int64]*models.User{1: studentUser(1)}}

	svc := newAssignmentService(store, users, courseReaderStub{}, config.AssignmentsConfig{CourseScopedLookup: true})
	outcome, err := svc.UpdateBatchAssignment(context.Background(), AssignBatchRequest{BatchID: 10, StudentIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, outcome.AssignedNew)
	require.NotNil(t, store.repairScoped)
	assert.True(t, *store.repairScoped)

	svc = newAssignmentService(store, users, courseReaderStub{}, config.AssignmentsConfig{})
	_, err = svc.UpdateBatchAssignment(context.Background(), AssignBatchRequest{BatchID: 10, StudentIDs: []int64{1}})
	require.NoError(t, err)
	assert.False(t, *store.repairScoped)
}

func TestGetRosterDeduplicatesPreferringBatchName(t *testing.T) {
	batchName := "Morning Batch"
	store := &assignmentStoreStub{
		roster: []models.RosterEntry{
			{StudentID: 1, Name: "Asha", Email: "asha@example.com", PurchasedAt: time.Now()},
			{StudentID: 1, Name: "Asha", Email: "asha@example.com", PurchasedAt: time.Now(), BatchName: &batchName},
			{StudentID: 2, Name: "Ben", Email: "ben@example.com", PurchasedAt: time.Now()},
		},
	}
	courses := courseReaderStub{courses: map[int64]*models.Course{3: {ID: 3}}}
	svc := newAssignmentService(store, userReaderStub{}, courses, config.AssignmentsConfig{})

	roster, err := svc.GetRoster(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 2, roster.Total)
	assert.Equal(t, models.AssignmentStatusAssigned, roster.Students[0].Status)
	require.NotNil(t, roster.Students[0].BatchName)
	assert.Equal(t, "Morning Batch", *roster.Students[0].BatchName)
	assert.Equal(t, models.AssignmentStatusUnassigned, roster.Students[1].Status)
}

func TestGetRosterRejectsUnknownCourse(t *testing.T) {
	svc := newAssignmentService(&assignmentStoreStub{}, userReaderStub{}, courseReaderStub{}, config.AssignmentsConfig{})

	_, err := svc.GetRoster(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportRosterRendersCSV(t *testing.T) {
	batchName := "Morning Batch"
	store := &assignmentStoreStub{
		roster: []models.RosterEntry{
			{StudentID: 1, Name: "Asha", Email: "asha@example.com", PurchasedAt: time.Now(), BatchName: &batchName},
		},
	}
	courses := courseReaderStub{courses: map[int64]*models.Course{3: {ID: 3}}}
	svc := newAssignmentService(store, userReaderStub{}, courses, config.AssignmentsConfig{})

	payload, contentType, err := svc.ExportRoster(context.Background(), 3, RosterFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "asha@example.com")
	assert.Contains(t, string(payload), "Morning Batch")
}

func TestExportRosterRejectsUnknownFormat(t *testing.T) {
	courses := courseReaderStub{courses: map[int64]*models.Course{3: {ID: 3}}}
	svc := newAssignmentService(&assignmentStoreStub{}, userReaderStub{}, courses, config.AssignmentsConfig{})

	_, _, err := svc.ExportRoster(context.Background(), 3, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
