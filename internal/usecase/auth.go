package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/security"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

var (
	// ErrInvalidCredentials indicates an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled indicates the account or its role is inactive.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrExpiredAccessToken mirrors the security layer's expiry error.
	ErrExpiredAccessToken = security.ErrTokenExpired
	// ErrInvalidAccessToken mirrors the security layer's validation error.
	ErrInvalidAccessToken = security.ErrTokenInvalid
)

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	User        domain.User
}

// AuthService authenticates users and resolves actors from access tokens.
type AuthService struct {
	users  port.UserRepository
	tokens *security.TokenManager
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users port.UserRepository, tokens *security.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies credentials and issues an access token carrying the user's
// role slug and permission set.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive || user.Role == nil || !user.Role.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Role.Slug, user.Role.Permissions)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		s.logger.Warn("record login timestamp", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &LoginResult{AccessToken: token, User: *user}, nil
}

// ParseAccessToken resolves an actor from a bearer token. Used by the auth middleware.
func (s *AuthService) ParseAccessToken(_ context.Context, raw string) (*domain.Actor, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &domain.Actor{
		ID:          claims.UserID,
		Name:        claims.Name,
		RoleSlug:    claims.RoleSlug,
		Permissions: claims.Permissions,
	}, nil
}
