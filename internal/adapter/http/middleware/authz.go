package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

const (
	ctxUsername = "auth.username"
	ctxRole     = "auth.role"
)

type Authz struct {
	tokens usecase.TokenSettings
}

func NewAuthz(tokens usecase.TokenSettings) *Authz {
	return &Authz{tokens: tokens}
}

// RequireUser checks the bearer token and stores the caller identity in
// the gin context. Any valid role passes.
func (a *Authz) RequireUser() gin.HandlerFunc {
	return a.require(false)
}

// RequireAdmin additionally demands the ADMIN role.
func (a *Authz) RequireAdmin() gin.HandlerFunc {
	return a.require(true)
}

func (a *Authz) require(adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.tokens.Secret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauth(c, "invalid_token", "claims parsing error")
			return
		}
		if claims["iss"] != a.tokens.Issuer || claims["aud"] != a.tokens.Audience {
			unauth(c, "invalid_token", "iss/aud mismatch")
			return
		}

		username, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if username == "" {
			unauth(c, "invalid_token", "missing subject")
			return
		}
		if adminOnly && role != string(domain.RoleAdmin) {
			forbidden(c, "insufficient_role", "admin role required")
			return
		}

		c.Set(ctxUsername, username)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// CallerFrom reads the authenticated identity placed by RequireUser /
// RequireAdmin. Zero value means the route was unauthenticated.
func CallerFrom(c *gin.Context) usecase.Caller {
	username, _ := c.Get(ctxUsername)
	role, _ := c.Get(ctxRole)
	name, _ := username.(string)
	r, _ := role.(string)
	return usecase.Caller{Username: name, Admin: r == string(domain.RoleAdmin)}
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
