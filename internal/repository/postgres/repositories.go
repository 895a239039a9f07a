package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Roles       *RoleRepository
	Users       *UserRepository
	Locations   *LocationRepository
	Submissions *SubmissionRepository
	Events      *EventRepository
	Reportings  *ReportingRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Roles:       NewRoleRepository(pool),
		Users:       NewUserRepository(pool),
		Locations:   NewLocationRepository(pool),
		Submissions: NewSubmissionRepository(pool),
		Events:      NewEventRepository(pool),
		Reportings:  NewReportingRepository(pool),
	}
}
