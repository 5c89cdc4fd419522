package app

import (
	"gorm.io/gorm"

	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	UserRole       repos.UserRoleRepo
	Question       repos.QuestionRepo
	QuestionDetail repos.QuestionDetailRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		UserRole:       repos.NewUserRoleRepo(db, log),
		Question:       repos.NewQuestionRepo(db, log),
		QuestionDetail: repos.NewQuestionDetailRepo(db, log),
	}
}
