package emailtest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	senderservice "github.com/magabrotheeeer/lab-reserve/internal/services/sender"
)

// MockService реализует интерфейс emailtest.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SendTestEmail(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func TestEmailTestHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	principal := models.Principal{UserID: "admin-1", Email: "admin@lab.dev", IsAdmin: true}

	tests := []struct {
		name           string
		authenticated  bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "test email sent to the admin address",
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("SendTestEmail", "admin@lab.dev").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `test email sent to admin@lab.dev`,
		},
		{
			name:          "smtp not configured",
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("SendTestEmail", "admin@lab.dev").
					Return(senderservice.ErrTransportNotConfigured)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `smtp is not configured`,
		},
		{
			name:           "missing authorization",
			authenticated:  false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:          "transport failure",
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("SendTestEmail", "admin@lab.dev").Return(errors.New("smtp down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not send test email`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/admin/email/test", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.authenticated {
				ctx = context.WithValue(ctx, middlewarectx.PrincipalKey, principal)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
