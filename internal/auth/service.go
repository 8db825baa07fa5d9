package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/internal/users"
	pkgauth "github.com/avelasquez/stridemart-backend/pkg/auth"
	"github.com/avelasquez/stridemart-backend/pkg/auth/session"
	"github.com/avelasquez/stridemart-backend/pkg/config"
	"github.com/avelasquez/stridemart-backend/pkg/db"
	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
	"github.com/avelasquez/stridemart-backend/pkg/logger"
	"github.com/avelasquez/stridemart-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

type cartMerger interface {
	MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error
}

// Service defines the behavior needed by the auth controller. The guestToken
// arguments carry the caller's guest session cookie, if any, so a pre-login
// cart can be folded into the account.
type Service interface {
	Register(ctx context.Context, req RegisterRequest, guestToken string) (*Response, error)
	Login(ctx context.Context, req LoginRequest, guestToken string) (*Response, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	users    userRepository
	sessions sessionManager
	carts    cartMerger
	log      *logger.Logger
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users    userRepository
	Sessions sessionManager
	Carts    cartMerger
	Logger   *logger.Logger
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart merger is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		carts:    params.Carts,
		log:      params.Logger,
		jwtCfg:   params.JWT,
		pwCfg:    params.Password,
		now:      time.Now,
	}, nil
}

// Register creates an account, opens a session, and folds any guest cart
// into it.
func (s *service) Register(ctx context.Context, req RegisterRequest, guestToken string) (*Response, error) {
	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.openSession(ctx, user, guestToken)
}

// Login verifies credentials, opens a session, and folds any guest cart into
// the account. Unknown emails and bad passwords fail identically.
func (s *service) Login(ctx context.Context, req LoginRequest, guestToken string) (*Response, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.log.Error(ctx, "update last login", err)
	}

	return s.openSession(ctx, user, guestToken)
}

// Logout revokes the session behind the provided access ID. Revoking an
// already-dead session is not an error.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User, guestToken string) (*Response, error) {
	if guestToken != "" {
		if err := s.carts.MergeGuestCart(ctx, guestToken, user.ID); err != nil {
			// the account is already usable; losing the guest cart is
			// recoverable, losing the login is not
			s.log.Error(ctx, "merge guest cart", err)
		}
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
	}

	return &Response{
		User:         users.FromModel(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
