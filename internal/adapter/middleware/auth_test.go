package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lendbox/internal/infrastructure/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuth(t *testing.T) {
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "lendbox", time.Hour)
	other := auth.NewTokenManager("ffffffffffffffffffffffffffffffff", "lendbox", time.Hour)

	good, err := tokens.Generate(42, "+254700000001")
	require.NoError(t, err)
	forged, err := other.Generate(42, "+254700000001")
	require.NoError(t, err)

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]uint64{"id": UserID(c)})
	}, JWTAuth(tokens))

	tests := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{"valid", "Bearer " + good, http.StatusOK, `{"id":42}`},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized, ""},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

// fixedClaims verifies every token to the same claims.
type fixedClaims struct{ subject string }

func (f fixedClaims) Verify(string) (*auth.Claims, error) {
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: f.subject}}, nil
}

func TestJWTAuth_RejectsUnusableSubject(t *testing.T) {
	for _, sub := range []string{"abc", "0", "-1", ""} {
		t.Run(sub, func(t *testing.T) {
			e := echo.New()
			called := false
			e.GET("/me", func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			}, JWTAuth(fixedClaims{subject: sub}))

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer token")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
			assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
		})
	}
}

func TestUserID_Unset(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Zero(t, UserID(c))
}
