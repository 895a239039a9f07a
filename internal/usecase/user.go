package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/security"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

var (
	// ErrUserExists indicates a user with the provided email already exists.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrCannotDeactivateSelf indicates an actor tried to deactivate their own account.
	ErrCannotDeactivateSelf = errors.New("cannot deactivate own account")
	// ErrPasswordTooWeak indicates the password failed the account policy.
	ErrPasswordTooWeak = errors.New("password does not meet the policy")
)

// CreateUserInput captures an administrator-created account.
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
	RoleID   string
}

// UserService manages user accounts.
type UserService struct {
	users port.UserRepository
	roles port.RoleRepository
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository, roles port.RoleRepository) *UserService {
	return &UserService{users: users, roles: roles}
}

// Create provisions a user. Administrator-created accounts are auto-verified.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if input.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if err := security.ValidatePassword(input.Password, name, email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPasswordTooWeak, err)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrUserExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	role, err := s.roles.GetByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
		RegisteredAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// List returns all users with their roles attached.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get loads one user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Deactivate disables an account. Actors cannot deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, actor domain.Actor, id string) error {
	if actor.ID == id {
		return ErrCannotDeactivateSelf
	}
	if err := s.users.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
