package digestrun

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

	digestservice "github.com/magabrotheeeer/lab-reserve/internal/services/digest"
)

// MockService реализует интерфейс digestrun.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Run(ctx context.Context) (digestservice.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(digestservice.Result), args.Error(1)
}

func TestDigestRunHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success run returns totals",
			setupMock: func(m *MockService) {
				m.On("Run", mock.Anything).
					Return(digestservice.Result{Published: 3, Errors: 0, Renewals: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "run failure",
			setupMock: func(m *MockService) {
				m.On("Run", mock.Anything).
					Return(digestservice.Result{}, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `digest run failed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/admin/digest/run", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
