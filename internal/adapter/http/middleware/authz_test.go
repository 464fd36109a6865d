package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

var testTokens = usecase.TokenSettings{
	Secret:   "test-secret",
	Issuer:   "inventory-api",
	Audience: "inventory-clients",
	TTL:      time.Hour,
}

func signToken(t *testing.T, settings usecase.TokenSettings, sub, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  settings.Issuer,
		"aud":  settings.Audience,
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(settings.Secret))
	require.NoError(t, err)
	return signed
}

func testRouter(authz *Authz) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/user", authz.RequireUser(), func(c *gin.Context) {
		caller := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"username": caller.Username, "admin": caller.Admin})
	})
	r.GET("/admin", authz.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	r := testRouter(NewAuthz(testTokens))

	w := do(r, "/user", signToken(t, testTokens, "alice", "USER", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"admin":false`)
}

func TestRequireUser_MissingOrBadToken(t *testing.T) {
	r := testRouter(NewAuthz(testTokens))

	w := do(r, "/user", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/user", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signed with the wrong key.
	other := testTokens
	other.Secret = "other-secret"
	w = do(r, "/user", signToken(t, other, "alice", "USER", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired well past the leeway.
	w = do(r, "/user", signToken(t, testTokens, "alice", "USER", -time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_IssuerAudienceChecked(t *testing.T) {
	r := testRouter(NewAuthz(testTokens))

	wrongIss := testTokens
	wrongIss.Issuer = "someone-else"
	w := do(r, "/user", signToken(t, wrongIss, "alice", "USER", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrongAud := testTokens
	wrongAud.Audience = "other-clients"
	w = do(r, "/user", signToken(t, wrongAud, "alice", "USER", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := testRouter(NewAuthz(testTokens))

	w := do(r, "/admin", signToken(t, testTokens, "root", "ADMIN", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/admin", signToken(t, testTokens, "alice", "USER", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "insufficient_role")
}
