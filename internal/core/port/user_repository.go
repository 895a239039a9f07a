package port

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// UserRepository persists user accounts. Reads hydrate the attached role so the
// authorization gate can inspect slug and permissions without a second query.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	SetActive(ctx context.Context, id string, active bool) error
	RecordLogin(ctx context.Context, id string) error
}
