package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-service/internal/shared/auth"
	"resume-service/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	resumeIDKey = "resumeId"
)

// RequireAuth validates the bearer token and stores the acting user id in
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing bearer token", nil)
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if raw == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			msg := "missing or invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, msg, nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by RequireAuth.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// SetResumeID marks the request as touching the given resume so the request
// log can carry it. Handlers call this; Logging reads it back.
func SetResumeID(c *gin.Context, id string) {
	if c == nil || id == "" {
		return
	}
	c.Set(resumeIDKey, id)
}

// ResumeIDFromContext fetches the resume ID set by SetResumeID.
func ResumeIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(resumeIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
