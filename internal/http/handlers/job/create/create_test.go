package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/devhire/job-board/internal/http/middlewarectx"
	"github.com/devhire/job-board/internal/models"
	services "github.com/devhire/job-board/internal/services/job"
)

// MockService implements the create.Service interface.
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, ownerUID string, req models.DummyJob) (*models.Job, error) {
	args := m.Called(ctx, ownerUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{
	"title": "Go Developer",
	"company": "Acme",
	"location": "Remote",
	"city": "Berlin",
	"type": "Full-time",
	"experience": "2+ years",
	"salary": "90000",
	"monthlySalary": "7500",
	"description": "Build backend services in Go."
}`

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		withAuth       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "successful create",
			body:     validBody,
			withAuth: true,
			setupMock: func(m *MockService) {
				job := &models.Job{UID: "job-1", Title: "Go Developer", Company: "Acme", IsActive: true, CreatedAt: time.Now()}
				m.On("Create", mock.Anything, "uid-1", mock.AnythingOfType("models.DummyJob")).Return(job, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"title":"Go Developer"`,
		},
		{
			name:           "not authenticated",
			body:           validBody,
			withAuth:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:           "missing title",
			body:           `{"company":"Acme","location":"Remote","city":"Berlin","type":"Full-time","experience":"2+ years","salary":"90000","monthlySalary":"7500","description":"d"}`,
			withAuth:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"Title"`,
		},
		{
			name:           "unknown location value",
			body:           `{"title":"t","company":"Acme","location":"Moon","city":"Berlin","type":"Full-time","experience":"2+ years","salary":"90000","monthlySalary":"7500","description":"d"}`,
			withAuth:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"Location"`,
		},
		{
			name:     "deadline in the past",
			body:     strings.Replace(validBody, `"description": "Build backend services in Go."`, `"description": "d", "deadline": "2020-01-01T00:00:00Z"`, 1),
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.AnythingOfType("models.DummyJob")).
					Return(nil, services.ErrDeadlinePast)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "application deadline must be in the future",
		},
		{
			name:     "malformed deadline",
			body:     strings.Replace(validBody, `"description": "Build backend services in Go."`, `"description": "d", "deadline": "tomorrow"`, 1),
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.AnythingOfType("models.DummyJob")).
					Return(nil, services.ErrDeadlineFormat)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "deadline must be a valid RFC 3339 timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(tt.body))
			if tt.withAuth {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
