package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/domain"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/metrics"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Validate(ctx context.Context, raw string) (bool, error)
	Logout(ctx context.Context, raw string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /user/register
// 201 on success, 409 when the email is already registered.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

// POST /user/login
// Returns {"token": "<jwt>"} on success. Unknown user and wrong password
// share one 401 message so the response does not reveal which it was.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signed, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"token": signed})
}

// GET /user/validate (behind the gate)
// Re-runs the full validation for the presented token and reports the result.
func (h *AuthHandler) Validate(c *gin.Context) {
	raw := c.GetString("token")

	valid, err := h.authUsecase.Validate(c.Request.Context(), raw)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "validate token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// POST /user/logout (behind the gate)
// Revokes the presented token. Idempotent: logging out twice succeeds at the
// usecase level, though the second request is already rejected by the gate.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := c.GetString("token")

	if err := h.authUsecase.Logout(c.Request.Context(), raw); err != nil {
		// Only hit when the token expires between the gate and here.
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "logout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.LogoutsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
