package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

// UserRepository implements port.UserRepository using PostgreSQL. Reads join
// the role row so the authorization gate never needs a second query.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var userJoinedColumns = []string{
	"u.id", "u.name", "u.email", "u.phone", "u.password_hash", "u.role_id",
	"u.is_active", "u.is_verified", "u.registered_at", "u.last_login",
	"r.id", "r.name", "r.slug", "r.description", "r.permissions", "r.is_active",
	"r.created_at", "r.updated_at",
}

func scanJoinedUser(row pgx.Row) (*domain.User, error) {
	var (
		user            domain.User
		role            domain.Role
		phone           sql.NullString
		lastLogin       sql.NullTime
		roleDescription sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&user.RoleID,
		&user.IsActive,
		&user.IsVerified,
		&user.RegisteredAt,
		&lastLogin,
		&role.ID,
		&role.Name,
		&role.Slug,
		&roleDescription,
		&role.Permissions,
		&role.IsActive,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	if roleDescription.Valid {
		role.Description = &roleDescription.String
	}
	user.Role = &role

	return &user, nil
}

func (r *UserRepository) selectJoined() squirrel.SelectBuilder {
	return r.builder.Select(userJoinedColumns...).
		From("chp.users u").
		Join("chp.roles r ON r.id = u.role_id")
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("chp.users").
		Columns("id", "name", "email", "phone", "password_hash", "role_id", "is_active", "is_verified", "registered_at").
		Values(user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.RoleID, user.IsActive, user.IsVerified, user.RegisteredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user with their role attached.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.selectJoined().
		Where(squirrel.Eq{"u.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by id sql: %w", err)
	}

	user, err := scanJoinedUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email with their role attached.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.selectJoined().
		Where(squirrel.Eq{"u.email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	user, err := scanJoinedUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user by email: %w", err)
	}

	return user, nil
}

// List retrieves all users sorted by name.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	stmt, args, err := r.selectJoined().
		OrderBy("u.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanJoinedUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Update modifies mutable user fields.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("chp.users").
		Set("name", user.Name).
		Set("phone", user.Phone).
		Set("role_id", user.RoleID).
		Set("is_active", user.IsActive).
		Set("is_verified", user.IsVerified).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetActive flips the account's active flag.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	stmt, args, err := r.builder.Update("chp.users").
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set user active sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// RecordLogin stamps the user's last login time.
func (r *UserRepository) RecordLogin(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("chp.users").
		Set("last_login", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record login sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
