package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. A single value for both causes keeps the two failure modes
// externally indistinguishable.
var ErrInvalidCredentials = apperrors.NewInvalidCredentials()

// AuthService coordinates registration and login flows. Login uses EMAIL as
// the canonical identifier on every transport.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	tokenMgr *auth.TokenManager
	limiter  LoginLimiter
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Limiter  LoginLimiter
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		hasher:   auth.NewHasher(cfg.Auth.Argon2Time, cfg.Auth.Argon2Memory, cfg.Auth.Argon2Threads),
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		limiter:  deps.Limiter,
	}
}

// Register creates a new user account. Registration does not issue a token;
// callers log in separately. Uniqueness of username and email is enforced by
// the store, whose conflict signal is authoritative.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("username, email, password required", nil)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, apperrors.NewValidationError("password required", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewDuplicateCredential("username or email already registered")
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password return the identical error value; a store
// outage is surfaced distinctly and never reported as bad credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", time.Time{}, apperrors.NewValidationError("email and password required", nil)
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, email); err != nil {
			return "", time.Time{}, err
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}

// GetUser loads a user by subject id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for the transport guards.
// Both transports share this single instance.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
