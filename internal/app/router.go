package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/lexibridge/lexibridge-backend/internal/http"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware) *gin.Engine {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:             log,
		AuthMiddleware:  mw.Auth,
		CORSOrigins:     cfg.CORSOrigins,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		QuestionHandler: handlers.Question,
		DetailHandler:   handlers.Detail,
		AudioHandler:    handlers.Audio,
		RoleHandler:     handlers.Role,
	})
}
