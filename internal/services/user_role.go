package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// RoleService resolves and assigns user roles. A user without a role row is a
// plain RoleUser.
type RoleService interface {
	GetRole(ctx context.Context, userID uuid.UUID) (string, error)
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*types.UserRole, error)
}

type roleService struct {
	db       *gorm.DB
	log      *logger.Logger
	roleRepo repos.UserRoleRepo
}

func NewRoleService(db *gorm.DB, log *logger.Logger, roleRepo repos.UserRoleRepo) RoleService {
	return &roleService{
		db:       db,
		log:      log.With("service", "RoleService"),
		roleRepo: roleRepo,
	}
}

func (s *roleService) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	row, err := s.roleRepo.GetByUserID(dbctx.From(ctx), userID)
	if err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}
	if row == nil || row.Role == "" {
		return types.RoleUser, nil
	}
	return row.Role, nil
}

func (s *roleService) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	if role != types.RoleAdmin && role != types.RoleUser {
		return apperrors.ErrInvalidArgument
	}
	return s.roleRepo.Upsert(dbctx.From(ctx), userID, role)
}

func (s *roleService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	role, err := s.GetRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == types.RoleAdmin, nil
}

func (s *roleService) List(ctx context.Context) ([]*types.UserRole, error) {
	return s.roleRepo.List(dbctx.From(ctx))
}
