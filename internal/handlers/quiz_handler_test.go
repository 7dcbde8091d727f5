package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/services"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== SERVICE MOCKS =====

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) Create(ctx context.Context, req *services.CreateQuizRequest, creatorID uint) (*services.QuizResponse, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizResponse), args.Error(1)
}

func (m *MockQuizService) GetByID(ctx context.Context, id uint, userID uint) (*services.QuizResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizResponse), args.Error(1)
}

func (m *MockQuizService) GetByIDWithQuestions(ctx context.Context, id uint, userID uint) (*services.QuizResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizResponse), args.Error(1)
}

func (m *MockQuizService) Update(ctx context.Context, id uint, req *services.UpdateQuizRequest, userID uint) (*services.QuizResponse, error) {
	args := m.Called(ctx, id, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizResponse), args.Error(1)
}

func (m *MockQuizService) Delete(ctx context.Context, id uint, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockQuizService) List(ctx context.Context, filters repositories.QuizFilters, userID uint) (*services.QuizListResponse, error) {
	args := m.Called(ctx, filters, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizListResponse), args.Error(1)
}

func (m *MockQuizService) Search(ctx context.Context, query string, filters repositories.QuizFilters, userID uint) (*services.QuizListResponse, error) {
	args := m.Called(ctx, query, filters, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizListResponse), args.Error(1)
}

func (m *MockQuizService) Publish(ctx context.Context, id uint, userID uint) (*services.QuizResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizResponse), args.Error(1)
}

func (m *MockQuizService) Archive(ctx context.Context, id uint, userID uint) (*services.QuizResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuizResponse), args.Error(1)
}

func (m *MockQuizService) GetStats(ctx context.Context, id uint, userID uint) (*repositories.QuizStats, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.QuizStats), args.Error(1)
}

func (m *MockQuizService) GetTutorStats(ctx context.Context, tutorID uint) (*repositories.TutorStats, error) {
	args := m.Called(ctx, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.TutorStats), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportQuizXLSX(ctx context.Context, quizID uint, userID uint) ([]byte, string, error) {
	args := m.Called(ctx, quizID, userID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockExportService) ExportQuizCSV(ctx context.Context, quizID uint, userID uint) ([]byte, string, error) {
	args := m.Called(ctx, quizID, userID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// ===== TEST HELPERS =====

func newTestQuizHandler(svc *MockQuizService) *QuizHandler {
	gin.SetMode(gin.TestMode)
	return NewQuizHandler(svc, new(MockExportService), utils.NewDefaultLogger())
}

func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func authenticate(c *gin.Context, userID uint) {
	c.Set("session", &utils.Claims{UserID: userID, Role: models.RoleTutor})
	c.Set("user_id", userID)
}

// ===== TESTS =====

func TestQuizHandler_GetQuiz_WrapsResponseEnvelope(t *testing.T) {
	svc := new(MockQuizService)
	handler := newTestQuizHandler(svc)

	svc.On("GetByID", mock.Anything, uint(5), uint(10)).
		Return(&services.QuizResponse{ID: 5, Title: "Midterm"}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/quizzes/5")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	authenticate(c, 10)

	handler.GetQuiz(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                  `json:"success"`
		Data    services.QuizResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, uint(5), body.Data.ID)
	assert.Equal(t, "Midterm", body.Data.Title)
}

func TestQuizHandler_DeleteQuiz_ReportsSuccessFlag(t *testing.T) {
	svc := new(MockQuizService)
	handler := newTestQuizHandler(svc)

	svc.On("Delete", mock.Anything, uint(5), uint(10)).Return(nil)

	c, w := newTestContext(http.MethodDelete, "/api/v1/quizzes/5")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	authenticate(c, 10)

	handler.DeleteQuiz(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}

func TestQuizHandler_GetQuiz_MissingSessionRejected(t *testing.T) {
	svc := new(MockQuizService)
	handler := newTestQuizHandler(svc)

	c, w := newTestContext(http.MethodGet, "/api/v1/quizzes/5")
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.GetQuiz(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizHandler_NotFoundMapsTo404(t *testing.T) {
	svc := new(MockQuizService)
	handler := newTestQuizHandler(svc)

	svc.On("GetByID", mock.Anything, uint(99), uint(10)).
		Return(nil, services.ErrQuizNotFound)

	c, w := newTestContext(http.MethodGet, "/api/v1/quizzes/99")
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	authenticate(c, 10)

	handler.GetQuiz(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
