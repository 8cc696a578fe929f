package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, exp, err := issuer.IssueAccessToken(domain.Principal{ID: 42, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	p, err := NewVerifier("secret").Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{ID: 42, Role: domain.RoleAdmin}, p)
	assert.True(t, p.IsAdmin())
}

func TestParse_Rejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, _, err := issuer.IssueAccessToken(domain.Principal{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = NewVerifier("other").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.IssueAccessToken(domain.Principal{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)
	_, err = NewVerifier("secret").Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	bad, _, err := issuer.IssueAccessToken(domain.Principal{ID: 1, Role: "root"})
	require.NoError(t, err)
	_, err = NewVerifier("secret").Parse(bad)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewIssuer("secret", time.Hour)
	verifier := NewVerifier("secret")

	router := gin.New()
	router.GET("/me", Middleware(verifier), func(c *gin.Context) {
		p, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID})
	})
	router.GET("/admin", Middleware(verifier), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	userToken, _, err := issuer.IssueAccessToken(domain.Principal{ID: 7, Role: domain.RoleUser})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
