package middleware

import (
	"net/http"
	"strings"

	"travellink/internal/domain"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// TokenParser turns a bearer token into the caller's identity.
type TokenParser interface {
	Parse(token string) (domain.RequestContext, error)
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}

// AuthOptional attaches the caller when a valid token is present and passes through otherwise.
func AuthOptional(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearer(c); tok != "" {
			if rc, err := tokens.Parse(tok); err == nil {
				c.Set(userKey, rc)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		rc, err := tokens.Parse(tok)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		c.Set(userKey, rc)
		c.Next()
	}
}

// RequireRoles must run after AuthRequired.
func RequireRoles(names ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return func(c *gin.Context) {
		rc, ok := CurrentUser(c)
		if !ok || rc.Role == nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "login required")
			return
		}
		if !allowed[rc.Role.Name()] {
			abort(c, http.StatusForbidden, "forbidden", "role "+rc.Role.Name()+" may not access this resource")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

// CurrentRole is the caller's role, or nil for anonymous requests.
func CurrentRole(c *gin.Context) domain.Role {
	rc, _ := CurrentUser(c)
	return rc.Role
}
