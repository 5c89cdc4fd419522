package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/lexibridge/lexibridge-backend/internal/http/handlers"
	httpMW "github.com/lexibridge/lexibridge-backend/internal/http/middleware"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	QuestionHandler *httpH.QuestionHandler
	DetailHandler   *httpH.QuestionDetailHandler
	AudioHandler    *httpH.AudioHandler
	RoleHandler     *httpH.UserRoleHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Catalog reads are public: the learner app browses without an
		// account.
		if cfg.QuestionHandler != nil {
			api.GET("/questions", cfg.QuestionHandler.List)
			api.GET("/questions/:id", cfg.QuestionHandler.Get)
			api.GET("/questions/:id/detail", cfg.QuestionHandler.GetDetail)
		}
		if cfg.DetailHandler != nil {
			api.GET("/details/:id", cfg.DetailHandler.Get)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}
	}

	admin := protected.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	{
		if cfg.QuestionHandler != nil {
			admin.POST("/questions", cfg.QuestionHandler.Create)
			admin.PUT("/questions/:id", cfg.QuestionHandler.Update)
			admin.DELETE("/questions/:id", cfg.QuestionHandler.Delete)
		}
		if cfg.DetailHandler != nil {
			admin.PUT("/details/:id", cfg.DetailHandler.Update)
		}
		if cfg.AudioHandler != nil {
			admin.POST("/audio/generate", cfg.AudioHandler.Generate)
		}
		if cfg.RoleHandler != nil {
			admin.GET("/roles", cfg.RoleHandler.List)
			admin.PUT("/roles/:userId", cfg.RoleHandler.Set)
		}
	}

	return r
}
