package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatehouse-io/gatehouse/internal/shared"
	"github.com/gatehouse-io/gatehouse/internal/users"
)

// UserStore defines the persistence operations the auth service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	Create(ctx context.Context, in users.NewUser) (*users.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Service wraps authentication business rules.
type Service struct {
	store  UserStore
	hasher *Hasher
	tokens *TokenManager
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(store UserStore, hasher *Hasher, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates a pending account with the requested role. The account
// stays inactive until approved through onboarding.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (*users.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.store.Create(ctx, users.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     false,
	})
}

// Authenticate validates credentials and issues a bearer token. Unknown email
// and wrong password return the same error; valid credentials on a pending
// account return ErrAccountNotApproved.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, *users.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil, shared.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, shared.ErrAccountNotApproved
	}
	s.maybeUpgradeDigest(ctx, user, password)
	token, err := s.tokens.Issue(user.Email, user.Role, s.tokens.DefaultTTL())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// maybeUpgradeDigest replaces a deprecated-scheme digest with a current-scheme
// one after a successful verification. Failure to upgrade never fails login.
func (s *Service) maybeUpgradeDigest(ctx context.Context, user *users.User, password string) {
	if !s.hasher.NeedsUpgrade(user.PasswordHash) {
		return
	}
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.store.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("password digest upgrade", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
		return
	}
	user.PasswordHash = hash
}

// Resolve turns a bearer token into the account it identifies.
func (s *Service) Resolve(ctx context.Context, token string) (*users.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrIdentityNotFound
		}
		return nil, err
	}
	return user, nil
}

// TokenTTL exposes the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.DefaultTTL()
}
