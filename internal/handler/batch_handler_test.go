package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/internal/service"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

type batchServiceMock struct {
	createResp *models.Batch
	createErr  error
	listResp   []models.BatchDetail
	listErr    error
}

func (m *batchServiceMock) Create(ctx context.Context, req service.CreateBatchRequest) (*models.Batch, error) {
	return m.createResp, m.createErr
}

func (m *batchServiceMock) ListByCourse(ctx context.Context, courseID int64) ([]models.BatchDetail, error) {
	return m.listResp, m.listErr
}

type assignmentServiceMock struct {
	assignResp   *models.AssignmentOutcome
	assignErr    error
	updateResp   *models.RepairOutcome
	updateErr    error
	rosterResp   *models.Roster
	rosterErr    error
	exportBytes  []byte
	exportType   string
	exportErr    error
	lastAssign   service.AssignBatchRequest
	assignCalled bool
}

func (m *assignmentServiceMock) AssignBatch(ctx context.Context, req service.AssignBatchRequest) (*models.AssignmentOutcome, error) {
	m.assignCalled = true
	m.lastAssign = req
	return m.assignResp, m.assignErr
}

func (m *assignmentServiceMock) UpdateBatchAssignment(ctx context.Context, req service.AssignBatchRequest) (*models.RepairOutcome, error) {
	return m.updateResp, m.updateErr
}

func (m *assignmentServiceMock) GetRoster(ctx context.Context, courseID int64) (*models.Roster, error) {
	return m.rosterResp, m.rosterErr
}

func (m *assignmentServiceMock) ExportRoster(ctx context.Context, courseID int64, format string) ([]byte, string, error) {
	return m.exportBytes, m.exportType, m.exportErr
}

func TestBatchHandlerAssign(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		assignResp: &models.AssignmentOutcome{
			BatchName: "Morning A",
			Assigned:  []int64{7},
			Moved:     []int64{8},
			Skipped:   []int64{9},
		},
	}
	handler := NewBatchHandler(&batchServiceMock{}, mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"batch_id": 3, "student_ids": [7, 8, 9]}`)
	req, _ := http.NewRequest(http.MethodPost, "/batches/assign", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Assign(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.assignCalled)
	assert.Equal(t, int64(3), mockSvc.lastAssign.BatchID)
	assert.Equal(t, []int64{7, 8, 9}, mockSvc.lastAssign.StudentIDs)

	var envelope struct {
		Data models.AssignmentOutcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, []int64{7}, envelope.Data.Assigned)
	assert.Equal(t, []int64{8}, envelope.Data.Moved)
	assert.Equal(t, []int64{9}, envelope.Data.Skipped)
}

func TestBatchHandlerAssignInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{}
	handler := NewBatchHandler(&batchServiceMock{}, mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/batches/assign", bytes.NewBufferString(`{"batch_id": 3`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Assign(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.assignCalled)
}

func TestBatchHandlerRosterNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		rosterErr: appErrors.Clone(appErrors.ErrNotFound, "course not found"),
	}
	handler := NewBatchHandler(&batchServiceMock{}, mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/42/roster", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "42"}}

	handler.Roster(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchHandlerRosterBadCourseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBatchHandler(&batchServiceMock{}, &assignmentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/abc/roster", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "abc"}}

	handler.Roster(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchHandlerExportRosterSetsAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		exportBytes: []byte("Student ID,Name\n"),
		exportType:  "text/csv",
	}
	handler := NewBatchHandler(&batchServiceMock{}, mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/42/roster/export", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "42"}}

	handler.ExportRoster(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="roster-42.csv"`)
	assert.Equal(t, "Student ID,Name\n", w.Body.String())
}
