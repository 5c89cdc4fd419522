package db

import (
	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Identity + roles
		&types.User{},
		&types.UserToken{},
		&types.UserRole{},

		// Catalog content
		&types.Question{},
		&types.QuestionDetail{},
	)
}
