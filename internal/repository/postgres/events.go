package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

// EventRepository implements port.EventRepository using PostgreSQL.
type EventRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewEventRepository wires a PostgreSQL-backed event repository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *EventRepository) WithTx(tx pgx.Tx) *EventRepository {
	if tx == nil {
		return r
	}
	return &EventRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var eventColumns = []string{
	"id", "event_id", "submission_id", "applied_by",
	"name", "description", "event_date", "start_time", "end_time", "location",
	"expected_participants", "event_type", "contact_person", "contact_number", "contact_email",
	"proposal_file_path", "proposal_file_name", "moa_file_path", "moa_file_name",
	"status", "rejection_reason", "admin_notes",
	"approved_by", "approved_at", "reviewed_by", "reviewed_at",
	"is_successful", "completed_at",
	"created_at", "updated_at",
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		e               domain.Event
		moaFilePath     sql.NullString
		moaFileName     sql.NullString
		rejectionReason sql.NullString
		adminNotes      sql.NullString
		approvedBy      sql.NullString
		approvedAt      sql.NullTime
		reviewedBy      sql.NullString
		reviewedAt      sql.NullTime
		completedAt     sql.NullTime
	)

	if err := row.Scan(
		&e.ID, &e.EventID, &e.SubmissionID, &e.AppliedByID,
		&e.Name, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime, &e.Location,
		&e.ExpectedParticipants, &e.EventType, &e.ContactPerson, &e.ContactNumber, &e.ContactEmail,
		&e.ProposalFilePath, &e.ProposalFileName, &moaFilePath, &moaFileName,
		&e.Status, &rejectionReason, &adminNotes,
		&approvedBy, &approvedAt, &reviewedBy, &reviewedAt,
		&e.IsSuccessful, &completedAt,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if moaFilePath.Valid {
		e.MoaFilePath = &moaFilePath.String
	}
	if moaFileName.Valid {
		e.MoaFileName = &moaFileName.String
	}
	if rejectionReason.Valid {
		e.RejectionReason = &rejectionReason.String
	}
	if adminNotes.Valid {
		e.AdminNotes = &adminNotes.String
	}
	if approvedBy.Valid {
		e.ApprovedByID = &approvedBy.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		e.ApprovedAt = &t
	}
	if reviewedBy.Valid {
		e.ReviewedByID = &reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		e.ReviewedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		e.CompletedAt = &t
	}

	return &e, nil
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, e domain.Event) error {
	stmt, args, err := r.builder.Insert("chp.events").
		Columns(eventColumns...).
		Values(
			e.ID, e.EventID, e.SubmissionID, e.AppliedByID,
			e.Name, e.Description, e.EventDate, e.StartTime, e.EndTime, e.Location,
			e.ExpectedParticipants, e.EventType, e.ContactPerson, e.ContactNumber, e.ContactEmail,
			e.ProposalFilePath, e.ProposalFileName, e.MoaFilePath, e.MoaFileName,
			e.Status, e.RejectionReason, e.AdminNotes,
			e.ApprovedByID, e.ApprovedAt, e.ReviewedByID, e.ReviewedAt,
			e.IsSuccessful, e.CompletedAt,
			e.CreatedAt, e.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert event sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Event, error) {
	stmt, args, err := r.builder.Select(eventColumns...).
		From("chp.events").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event sql: %w", err)
	}

	event, err := scanEvent(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	return event, nil
}

// GetByID retrieves an event by internal id.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEventID retrieves an event by its business identifier.
func (r *EventRepository) GetByEventID(ctx context.Context, eventID string) (*domain.Event, error) {
	return r.getBy(ctx, squirrel.Eq{"event_id": eventID})
}

func (r *EventRepository) list(ctx context.Context, apply func(squirrel.SelectBuilder) squirrel.SelectBuilder) ([]domain.Event, error) {
	query := r.builder.Select(eventColumns...).
		From("chp.events").
		OrderBy("created_at DESC")
	if apply != nil {
		query = apply(query)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// List retrieves events, optionally filtered by status.
func (r *EventRepository) List(ctx context.Context, status *domain.EventStatus) ([]domain.Event, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if status != nil {
			q = q.Where(squirrel.Eq{"status": *status})
		}
		return q
	})
}

// ListAll retrieves every event.
func (r *EventRepository) ListAll(ctx context.Context) ([]domain.Event, error) {
	return r.list(ctx, nil)
}

// ListBySubmission retrieves the events filed under one submission.
func (r *EventRepository) ListBySubmission(ctx context.Context, submissionID string) ([]domain.Event, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return q.Where(squirrel.Eq{"submission_id": submissionID})
	})
}

// ExistsForApplicant reports whether the applicant already has a live event
// application under the submission. Rejected and cancelled applications do not
// block a new one.
func (r *EventRepository) ExistsForApplicant(ctx context.Context, submissionID, applicantID string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("chp.events").
		Where(squirrel.Eq{"submission_id": submissionID}).
		Where(squirrel.Eq{"applied_by": applicantID}).
		Where(squirrel.Eq{"status": []domain.EventStatus{domain.EventPending, domain.EventApproved, domain.EventCompleted}}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build event exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan event exists: %w", err)
	}

	return true, nil
}

// Update persists the full mutable state of an event.
func (r *EventRepository) Update(ctx context.Context, e domain.Event) error {
	stmt, args, err := r.builder.Update("chp.events").
		Set("name", e.Name).
		Set("description", e.Description).
		Set("event_date", e.EventDate).
		Set("start_time", e.StartTime).
		Set("end_time", e.EndTime).
		Set("location", e.Location).
		Set("expected_participants", e.ExpectedParticipants).
		Set("event_type", e.EventType).
		Set("contact_person", e.ContactPerson).
		Set("contact_number", e.ContactNumber).
		Set("contact_email", e.ContactEmail).
		Set("proposal_file_path", e.ProposalFilePath).
		Set("proposal_file_name", e.ProposalFileName).
		Set("moa_file_path", e.MoaFilePath).
		Set("moa_file_name", e.MoaFileName).
		Set("status", e.Status).
		Set("rejection_reason", e.RejectionReason).
		Set("admin_notes", e.AdminNotes).
		Set("approved_by", e.ApprovedByID).
		Set("approved_at", e.ApprovedAt).
		Set("reviewed_by", e.ReviewedByID).
		Set("reviewed_at", e.ReviewedAt).
		Set("is_successful", e.IsSuccessful).
		Set("completed_at", e.CompletedAt).
		Set("updated_at", e.UpdatedAt).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.EventRepository = (*EventRepository)(nil)
