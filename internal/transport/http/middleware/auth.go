package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/domain"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/metrics"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	errNoToken        = "No token supplied"
	errInvalidToken   = "Invalid token"
	errInternalServer = "Internal server error"
)

// Authenticator is the subset of the auth usecase the gate needs.
// Defined here (point of use) so tests can inject a fake.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*token.Claims, error)
}

// Auth extracts a Bearer token, runs the full verification path (signature,
// expiry, session registry match) and sets "userID", "email" and "token" in
// the gin context.
func Auth(auth Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNoToken})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, domain.ErrTokenInvalid) {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
				return
			}
			logger.ErrorContext(c.Request.Context(), "authenticate token", "error", err)
			metrics.TokenValidationsTotal.WithLabelValues("error").Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("token", raw)
		c.Next()
	}
}
