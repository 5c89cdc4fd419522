package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type QuestionDetailRepo interface {
	Create(dbc dbctx.Context, details []*types.QuestionDetail) ([]*types.QuestionDetail, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuestionDetail, error)
	GetByQuestionID(dbc dbctx.Context, questionID uuid.UUID) (*types.QuestionDetail, error)
	// UpdateFields is a field-level merge: columns absent from updates are left
	// untouched. The dialogs column is always written wholesale when present.
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByQuestionID(dbc dbctx.Context, questionID uuid.UUID) error
	Count(dbc dbctx.Context) (int64, error)
}

type questionDetailRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionDetailRepo(db *gorm.DB, baseLog *logger.Logger) QuestionDetailRepo {
	return &questionDetailRepo{
		db:  db,
		log: baseLog.With("repo", "QuestionDetailRepo"),
	}
}

func (r *questionDetailRepo) Create(dbc dbctx.Context, details []*types.QuestionDetail) ([]*types.QuestionDetail, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(details) == 0 {
		return []*types.QuestionDetail{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *questionDetailRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuestionDetail, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var d types.QuestionDetail
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *questionDetailRepo) GetByQuestionID(dbc dbctx.Context, questionID uuid.UUID) (*types.QuestionDetail, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var d types.QuestionDetail
	err := transaction.WithContext(dbc.Ctx).
		Where("question_id = ?", questionID).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *questionDetailRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.QuestionDetail{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *questionDetailRepo) DeleteByQuestionID(dbc dbctx.Context, questionID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("question_id = ?", questionID).
		Delete(&types.QuestionDetail{}).Error
}

func (r *questionDetailRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.QuestionDetail{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
