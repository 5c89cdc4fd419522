package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/ctxutil"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type AuthService interface {
	RegisterUser(ctx context.Context, email, password string) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	roleService   RoleService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	roleService RoleService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		roleService:   roleService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) RegisterUser(ctx context.Context, email, password string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		return nil, apperrors.ErrInvalidArgument
	}

	existing, err := as.userRepo.GetByEmail(dbctx.From(ctx), email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", apperrors.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{Email: email, Password: string(hash)}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		created, err := as.userRepo.Create(dbc, []*types.User{user})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		user = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(dbctx.From(ctx), email)
	if err != nil {
		return "", "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", "", apperrors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", apperrors.ErrUnauthorized
	}
	return as.issueTokens(ctx, user)
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := as.parseToken(refreshToken)
	if err != nil {
		return "", "", apperrors.ErrUnauthorized
	}
	idStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return "", "", apperrors.ErrUnauthorized
	}

	stored, err := as.userTokenRepo.GetByUserID(dbctx.From(ctx), userID)
	if err != nil {
		return "", "", fmt.Errorf("lookup refresh token: %w", err)
	}
	if stored == nil || stored.RefreshToken != refreshToken || time.Now().After(stored.ExpiresAt) {
		return "", "", apperrors.ErrUnauthorized
	}

	user, err := as.userRepo.GetByID(dbctx.From(ctx), userID)
	if err != nil {
		return "", "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", "", apperrors.ErrUnauthorized
	}
	return as.issueTokens(ctx, user)
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apperrors.ErrUnauthorized
	}
	return as.userTokenRepo.DeleteByUserID(dbctx.From(ctx), rd.UserID)
}

// SetContextFromToken validates an access token and attaches the caller's
// identity to the context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := as.parseToken(tokenString)
	if err != nil {
		return ctx, apperrors.ErrUnauthorized
	}
	idStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return ctx, apperrors.ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = types.RoleUser
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID: userID,
		Email:  email,
		Role:   role,
	}), nil
}

func (as *authService) issueTokens(ctx context.Context, user *types.User) (string, string, error) {
	role, err := as.roleService.GetRole(ctx, user.ID)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	access, err := as.signToken(jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(as.accessTTL).Unix(),
	})
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	// jti keeps refresh tokens unique even when two rotations land in the
	// same second, so the stored-token comparison can tell them apart.
	refresh, err := as.signToken(jwt.MapClaims{
		"user_id": user.ID.String(),
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(as.refreshTTL).Unix(),
	})
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := as.userTokenRepo.DeleteByUserID(dbc, user.ID); err != nil {
			return err
		}
		_, err := as.userTokenRepo.Create(dbc, []*types.UserToken{{
			UserID:       user.ID,
			RefreshToken: refresh,
			ExpiresAt:    now.Add(as.refreshTTL),
		}})
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("persist refresh token: %w", err)
	}
	return access, refresh, nil
}

func (as *authService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
