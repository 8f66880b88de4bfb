package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atelierhq/atelier-api/internal/api/shared"
	"github.com/atelierhq/atelier-api/internal/mocks"
	"github.com/atelierhq/atelier-api/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		claims      *auth.Claims
		wantStatus  int
		wantUserID  uuid.UUID
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			claims:     &auth.Claims{UserID: userID},
			wantStatus: http.StatusOK,
			wantUserID: userID,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer without token",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token with embedded space",
			authHeader: "Bearer two parts",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer expired-token",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer bad-token",
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "unexpected validation failure",
			authHeader:  "Bearer some-token",
			validateErr: errors.New("keystore unreachable"),
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{
				ValidateErr: tc.validateErr,
				Claims:      tc.claims,
			}
			mw := NewAuthMiddleware(jwtService)

			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id, ok := GetUserID(r); ok {
					gotUserID = id
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, tc.wantUserID, gotUserID)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))

		got, ok := GetUserID(req)
		assert.True(t, ok)
		assert.Equal(t, userID, got)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		got, ok := GetUserID(req)
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, got)
	})
}
