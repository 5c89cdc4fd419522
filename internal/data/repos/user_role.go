package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type UserRoleRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserRole, error)
	Upsert(dbc dbctx.Context, userID uuid.UUID, role string) error
	List(dbc dbctx.Context) ([]*types.UserRole, error)
}

type userRoleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRoleRepo(db *gorm.DB, baseLog *logger.Logger) UserRoleRepo {
	return &userRoleRepo{
		db:  db,
		log: baseLog.With("repo", "UserRoleRepo"),
	}
}

func (r *userRoleRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserRole, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ur types.UserRole
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ur, nil
}

func (r *userRoleRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, role string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	ur := types.UserRole{UserID: userID, Role: role}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(&ur).Error
}

func (r *userRoleRepo) List(dbc dbctx.Context) ([]*types.UserRole, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.UserRole
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
