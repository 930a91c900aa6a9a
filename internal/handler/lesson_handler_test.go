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

	"github.com/kasadra/learning-api/internal/middleware"
	"github.com/kasadra/learning-api/internal/models"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

type activationServiceMock struct {
	toggleResp  *models.ToggleResult
	toggleErr   error
	listResp    []models.LessonActivation
	listErr     error
	lastActorID *int64
}

func (m *activationServiceMock) Toggle(ctx context.Context, batchID, lessonID int64, actorID *int64) (*models.ToggleResult, error) {
	m.lastActorID = actorID
	return m.toggleResp, m.toggleErr
}

func (m *activationServiceMock) ListForBatch(ctx context.Context, batchID int64) ([]models.LessonActivation, error) {
	return m.listResp, m.listErr
}

func TestLessonHandlerToggle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activationServiceMock{
		toggleResp: &models.ToggleResult{LessonID: 5, BatchID: 2, IsActive: true},
	}
	handler := NewLessonHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/lessons/toggle", bytes.NewBufferString(`{"batch_id": 2, "lesson_id": 5}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 11, Role: models.RoleInstructor})

	handler.Toggle(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastActorID)
	assert.Equal(t, int64(11), *mockSvc.lastActorID)

	var envelope struct {
		Data models.ToggleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.IsActive)
}

func TestLessonHandlerToggleCrossCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activationServiceMock{
		toggleErr: appErrors.Clone(appErrors.ErrValidation, "lesson does not belong to the batch's course"),
	}
	handler := NewLessonHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/lessons/toggle", bytes.NewBufferString(`{"batch_id": 2, "lesson_id": 99}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Toggle(c)
	require.Equal(t, appErrors.ErrValidation.Status, w.Code)
}

func TestLessonHandlerToggleMissingLessonID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLessonHandler(&activationServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/lessons/toggle", bytes.NewBufferString(`{"batch_id": 2}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Toggle(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerListForBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activationServiceMock{
		listResp: []models.LessonActivation{
			{LessonID: 1, Title: "Intro", IsActive: true},
			{LessonID: 2, Title: "Basics", IsActive: false},
		},
	}
	handler := NewLessonHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/batches/2/lessons", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "batchId", Value: "2"}}

	handler.ListForBatch(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.LessonActivation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.True(t, envelope.Data[0].IsActive)
	assert.False(t, envelope.Data[1].IsActive)
}
