package app

import (
	"github.com/lexibridge/lexibridge-backend/internal/http/middleware"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, s.Auth, s.Role),
	}
}
