package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zhelezov/gym-dashboard/internal/auth"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

type AuthManagerMock struct {
	mock.Mock
}

func (m *AuthManagerMock) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	owner := &models.User{
		ID:    "u1",
		Email: "owner@gym.io",
		Role:  models.RoleGymOwner,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid login",
			requestBody:    models.DummyLogin{Email: "owner@gym.io", Password: "secret"},
			mockUser:       owner,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    models.DummyLogin{Email: "owner@gym.io"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
		},
		{
			name:           "backend rejects credentials",
			requestBody:    models.DummyLogin{Email: "owner@gym.io", Password: "wrong"},
			mockErr:        &auth.LoginError{Message: "Invalid credentials", Status: http.StatusUnauthorized},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Invalid credentials",
		},
		{
			name:           "backend unreachable",
			requestBody:    models.DummyLogin{Email: "owner@gym.io", Password: "secret"},
			mockErr:        &auth.LoginError{Message: "network error: check your connection"},
			wantStatusCode: http.StatusBadGateway,
			wantError:      "network error: check your connection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthManagerMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				req := tt.requestBody.(models.DummyLogin)
				authMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockUser, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), authMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/session/login", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			} else {
				assert.Contains(t, rec.Body.String(), `"owner@gym.io"`)
			}
			authMock.AssertExpectations(t)
		})
	}
}
