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
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

var (
	// ErrRoleExists indicates a role with the provided slug already exists.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleProtected indicates the role's slug belongs to the protected set.
	ErrRoleProtected = errors.New("protected roles cannot be deleted")
	// ErrRoleInUse indicates users are still attached to the role.
	ErrRoleInUse = errors.New("role has users attached")
	// ErrRoleNotFound is returned when the referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
)

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Name        string
	Slug        string
	Description *string
	Permissions []string
}

// UpdateRoleInput captures editable role fields. The slug is immutable.
type UpdateRoleInput struct {
	Name        string
	Description *string
	Permissions []string
	IsActive    bool
}

// RoleService manages roles and their permission sets.
type RoleService struct {
	roles port.RoleRepository
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// Get loads one role by id.
func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoleNotFound
	}
	return role, err
}

// Create provisions a new role with a unique slug.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("role slug is required")
	}

	if existing, err := s.roles.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by slug: %w", err)
	}

	now := time.Now().UTC()
	role := domain.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Permissions: dedupePermissions(input.Permissions),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			role.Description = &trimmed
		}
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	return &role, nil
}

// Update edits a role's name, description, permissions, and active flag. The
// slug never changes.
func (s *RoleService) Update(ctx context.Context, id string, input UpdateRoleInput) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}

	role.Name = name
	role.Permissions = dedupePermissions(input.Permissions)
	role.IsActive = input.IsActive
	role.UpdatedAt = time.Now().UTC()
	role.Description = nil
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			role.Description = &trimmed
		}
	}

	if err := s.roles.Update(ctx, *role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	return role, nil
}

// Delete removes a role. Protected slugs and roles with attached users are refused.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if role.IsProtected() {
		return ErrRoleProtected
	}

	count, err := s.roles.CountUsers(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if count > 0 {
		return ErrRoleInUse
	}

	return s.roles.Delete(ctx, role.ID)
}

func dedupePermissions(permissions []string) []string {
	seen := make(map[string]struct{}, len(permissions))
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
