package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"eventfeed/internal/app"
	"eventfeed/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "user"

// requireAuth resolves the auth cookie into a user record. A missing or
// malformed token is 403; an expired token, or a token whose user no longer
// exists, is 401.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(authCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "authorization required"})
			return
		}

		user, err := s.auth.ResolveFromToken(c.Request.Context(), raw)
		if err != nil {
			switch {
			case errors.Is(err, app.ErrTokenExpired), errors.Is(err, app.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization expired"})
			case errors.Is(err, app.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "authorization error"})
			default:
				s.log.Error("token resolution failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "unexpected server error, please try again later"})
			}
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// currentUser returns the user set by requireAuth. Only valid on routes
// behind that middleware.
func currentUser(c *gin.Context) *domain.User {
	v, _ := c.Get(userKey)
	user, _ := v.(*domain.User)
	return user
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
