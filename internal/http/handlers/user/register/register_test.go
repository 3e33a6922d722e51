package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

// MockService implements the register.Service interface.
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, email, rawPassword, role string) (string, *models.User, error) {
	args := m.Called(ctx, name, email, rawPassword, role)
	if res := args.Get(1); res != nil {
		return args.String(0), res.(*models.User), args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful registration",
			body: `{"name":"Ada","email":"ada@example.com","password":"secret123","role":"employer"}`,
			setupMock: func(m *MockService) {
				user := &models.User{UID: "uid-1", Name: "Ada", Email: "ada@example.com", Role: "employer", IsActive: true}
				m.On("Register", mock.Anything, "Ada", "ada@example.com", "secret123", "employer").
					Return("signed-token", user, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"token":"signed-token"`,
		},
		{
			name:           "invalid json body",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "missing email",
			body:           `{"name":"Ada","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"Email"`,
		},
		{
			name:           "short password",
			body:           `{"name":"Ada","email":"ada@example.com","password":"abc"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"Password"`,
		},
		{
			name:           "admin role rejected",
			body:           `{"name":"Ada","email":"ada@example.com","password":"secret123","role":"admin"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"Role"`,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ada","email":"ada@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Ada", "ada@example.com", "secret123", "").
					Return("", nil, storage.ErrUserExists)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "User already exists with this email",
		},
		{
			name: "service failure",
			body: `{"name":"Ada","email":"ada@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Ada", "ada@example.com", "secret123", "").
					Return("", nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
