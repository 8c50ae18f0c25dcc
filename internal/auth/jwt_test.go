// internal/auth/jwt_test.go
package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgraph/internal/util"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.IssueToken(42)
	require.NoError(t, err)

	id, err := m.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.IssueToken(1)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Authenticate(token)
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).IssueToken(1)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).Authenticate(token)
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Authenticate(token)
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestJWTManager_Garbage(t *testing.T) {
	_, err := NewJWTManager("secret", time.Hour).Authenticate("not-a-token")
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.IssueToken(7)
	require.NoError(t, err)

	var seen int64
	h := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, int64(7), seen)
			} else {
				assert.Zero(t, seen)
			}
		})
	}
}
