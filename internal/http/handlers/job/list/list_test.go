package list

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

	"github.com/devhire/job-board/internal/models"
)

// MockService implements the list.Service interface.
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, models.Pagination, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.Job), args.Get(1).(models.Pagination), args.Error(2)
	}
	return nil, args.Get(1).(models.Pagination), args.Error(2)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	now := time.Now()
	twoJobs := []*models.Job{
		{UID: "a", Title: "React Developer", Company: "Acme", IsActive: true, CreatedAt: now},
		{UID: "b", Title: "Senior React Engineer", Company: "Beta", IsActive: true, CreatedAt: now.Add(-time.Hour)},
	}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "search with explicit page and limit",
			query: "?search=React&page=1&limit=10",
			setupMock: func(m *MockService) {
				expected := models.JobFilter{
					Search: "React", SortBy: "createdAt", SortOrder: "desc", Page: 1, Limit: 10,
				}
				pagination := models.NewPagination(expected, 2)
				m.On("List", mock.Anything, expected).Return(twoJobs, pagination, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"totalJobs":2`,
		},
		{
			name:  "default page size applies",
			query: "",
			setupMock: func(m *MockService) {
				expected := models.JobFilter{SortBy: "createdAt", SortOrder: "desc", Page: 1, Limit: 100}
				m.On("List", mock.Anything, expected).Return([]*models.Job{}, models.NewPagination(expected, 0), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"totalJobs":0`,
		},
		{
			name:           "unknown location",
			query:          "?location=Moon",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid location: Moon",
		},
		{
			name:           "unknown sort column",
			query:          "?sortBy=salaryhack",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid sortBy: salaryhack",
		},
		{
			name:           "non-numeric page",
			query:          "?page=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid page: abc",
		},
		{
			name:           "zero limit",
			query:          "?limit=0",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid limit: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, 100)

			req := httptest.NewRequest(http.MethodGet, "/api/jobs"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
