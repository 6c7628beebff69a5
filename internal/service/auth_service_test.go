package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// memoryUserRepository mimics the Postgres repository contract: pgx.ErrNoRows
// for absent rows, repository.ErrDuplicate for unique-constraint conflicts.
type memoryUserRepository struct {
	users   map[string]*domain.User // keyed by id
	failAll error
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	if r.failAll != nil {
		return r.failAll
	}
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "service-test-secret",
			AccessTokenTTLMinutes: 60,
			Argon2Time:            1,
			Argon2Memory:          1024,
			Argon2Threads:         2,
		},
	}
}

func newTestAuthService(repo repository.UserRepository) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})
}

func TestRegister(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw123", user.PasswordHash, "password must be stored hashed")
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newMemoryUserRepository())
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"missing username", "", "a@example.com", "pw"},
		{"missing email", "alice", "", "pw"},
		{"missing password", "alice", "a@example.com", ""},
		{"blank username", "   ", "a@example.com", "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			require.Error(t, err)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "pw456")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CREDENTIAL", domainErr.Code)

	_, err = svc.Register(ctx, "bob", "alice@example.com", "pw456")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CREDENTIAL", domainErr.Code)
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	token, expiresAt, err := svc.Login(ctx, "alice@example.com", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	// The token must be accepted by the same manager the guards use and
	// carry the registered user id as subject.
	subject, err := svc.TokenManager().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestLoginEnumerationResistance(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "pw123")
	_, _, wrongPwErr := svc.Login(ctx, "alice@example.com", "wrong")

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	// Same error value, not merely the same type: an unknown email and a
	// wrong password must be indistinguishable to the caller.
	assert.Equal(t, unknownErr, wrongPwErr)
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
}

func TestLoginStoreOutageIsNotInvalidCredentials(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	repo.failAll = errors.New("connection refused")
	_, _, err = svc.Login(ctx, "alice@example.com", "pw123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE_UNAVAILABLE", domainErr.Code)
}

type blockingLimiter struct{ err error }

func (l blockingLimiter) Allow(context.Context, string) error { return l.err }

func TestLoginRateLimited(t *testing.T) {
	repo := newMemoryUserRepository()
	limited := apperrors.NewRateLimited("too many login attempts")
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo: repo,
		Limiter:  blockingLimiter{err: limited},
	})

	_, _, err := svc.Login(context.Background(), "alice@example.com", "pw123")
	assert.Equal(t, limited, err)
}

func TestGetUser(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetUser(ctx, "missing-id")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
