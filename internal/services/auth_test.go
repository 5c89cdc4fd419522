package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/ctxutil"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

func newAuthService(t *testing.T, db *gorm.DB) (AuthService, RoleService) {
	t.Helper()
	log := logger.NewNop()
	roleService := NewRoleService(db, log, repos.NewUserRoleRepo(db, log))
	authService := NewAuthService(
		db, log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		roleService,
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
	return authService, roleService
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuthService(t, db)

	user, err := auth.RegisterUser(context.Background(), "Admin@Example.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.Password == "password123" {
		t.Fatalf("password must be hashed")
	}

	access, refresh, err := auth.LoginUser(context.Background(), "admin@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens")
	}

	ctx, err := auth.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != user.ID || rd.Role != types.RoleUser {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuthService(t, db)

	if _, err := auth.RegisterUser(context.Background(), "a@b.co", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.RegisterUser(context.Background(), "a@b.co", "password456"); err == nil {
		t.Fatalf("expected duplicate email error")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuthService(t, db)

	if _, err := auth.RegisterUser(context.Background(), "a@b.co", "short"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuthService(t, db)

	if _, err := auth.RegisterUser(context.Background(), "a@b.co", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := auth.LoginUser(context.Background(), "a@b.co", "wrong"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuthService(t, db)

	if _, err := auth.RegisterUser(context.Background(), "a@b.co", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := auth.LoginUser(context.Background(), "a@b.co", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := auth.RefreshUser(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" {
		t.Fatalf("expected fresh tokens")
	}
	// Rotation in the same second must still mint a distinct token.
	if refresh2 == refresh {
		t.Fatalf("rotated refresh token must differ from the old one")
	}

	// The old refresh token was replaced and no longer works.
	if _, _, err := auth.RefreshUser(context.Background(), refresh); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for stale refresh token, got %v", err)
	}
}

func TestAdminRoleFlowsIntoToken(t *testing.T) {
	db := newTestDB(t)
	auth, roles := newAuthService(t, db)

	user, err := auth.RegisterUser(context.Background(), "admin@b.co", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := roles.SetRole(context.Background(), user.ID, types.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}

	access, _, err := auth.LoginUser(context.Background(), "admin@b.co", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	ctx, err := auth.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Role != types.RoleAdmin {
		t.Fatalf("expected admin role in request data: %+v", rd)
	}

	isAdmin, err := roles.IsAdmin(ctx, user.ID)
	if err != nil || !isAdmin {
		t.Fatalf("expected IsAdmin true, got %v %v", isAdmin, err)
	}
}

func TestRoleServiceDefaultsToUser(t *testing.T) {
	db := newTestDB(t)
	_, roles := newAuthService(t, db)

	role, err := roles.GetRole(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role != types.RoleUser {
		t.Fatalf("expected default role %q, got %q", types.RoleUser, role)
	}
}

func TestRoleServiceRejectsUnknownRole(t *testing.T) {
	db := newTestDB(t)
	_, roles := newAuthService(t, db)

	if err := roles.SetRole(context.Background(), uuid.New(), "superuser"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
