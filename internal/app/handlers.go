package app

import (
	"github.com/lexibridge/lexibridge-backend/internal/http/handlers"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Question *handlers.QuestionHandler
	Detail   *handlers.QuestionDetailHandler
	Audio    *handlers.AudioHandler
	Role     *handlers.UserRoleHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   handlers.NewHealthHandler(),
		Auth:     handlers.NewAuthHandler(s.Auth),
		Question: handlers.NewQuestionHandler(s.Question, s.QuestionDetail),
		Detail:   handlers.NewQuestionDetailHandler(s.QuestionDetail),
		Audio:    handlers.NewAudioHandler(s.OnDemandAudio),
		Role:     handlers.NewUserRoleHandler(s.Role),
	}
}
