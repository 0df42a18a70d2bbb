package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_delivery/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func mustToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, "user-1", role, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return tok
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	mw := NewJWTMiddleware(secret)
	next := func(c echo.Context) error {
		assert.Equal(t, "user-1", c.Get("user_id"))
		return c.NoContent(http.StatusNoContent)
	}

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantCode int
	}{
		{name: "no token", prepare: func(r *http.Request) {}, wantCode: http.StatusUnauthorized},
		{name: "garbage bearer", prepare: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer nope")
		}, wantCode: http.StatusUnauthorized},
		{name: "user role", prepare: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+mustToken(t, "user"))
		}, wantCode: http.StatusForbidden},
		{name: "admin bearer", prepare: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+mustToken(t, tokens.RoleAdmin))
		}, wantCode: http.StatusNoContent},
		{name: "admin cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessCookie, Value: mustToken(t, tokens.RoleAdmin)})
		}, wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/orders/complete-next", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := mw.RequireAdmin(next)(c)
			if tt.wantCode == http.StatusNoContent {
				require.NoError(t, err)
				assert.Equal(t, http.StatusNoContent, rec.Code)
				return
			}
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok, "expected HTTPError")
			assert.Equal(t, tt.wantCode, he.Code)
		})
	}
}
