package httptransport

import (
	"log/slog"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/transport/http/handler"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, auth middleware.Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	gate := middleware.Auth(auth, logger)

	user := r.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	// Token-presenting routes go through the gate first.
	user.GET("/validate", gate, authHandler.Validate)
	user.POST("/logout", gate, authHandler.Logout)

	return r
}
