package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionCategory string

const (
	CategoryHousing       QuestionCategory = "housing"
	CategorySocialWelfare QuestionCategory = "social-welfare"
	CategoryLegal         QuestionCategory = "legal"
	CategoryImmigration   QuestionCategory = "immigration"
	CategoryMedical       QuestionCategory = "medical"
)

func ValidCategory(c QuestionCategory) bool {
	switch c {
	case CategoryHousing, CategorySocialWelfare, CategoryLegal, CategoryImmigration, CategoryMedical:
		return true
	}
	return false
}

// Question is a topic card in the catalog. The dialog content itself lives in
// QuestionDetail, linked by QuestionID; a Question without a detail record is
// simply "details not yet prepared".
type Question struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	Title    string           `gorm:"type:text;not null;default:''" json:"title"`
	Category QuestionCategory `gorm:"type:text;not null;index" json:"category"`

	// IsExamTip flags questions reported from recent exam sessions.
	IsExamTip bool `gorm:"not null;default:false" json:"is_exam_tip"`

	UploadedAt time.Time `gorm:"not null;default:now();index" json:"uploaded_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
