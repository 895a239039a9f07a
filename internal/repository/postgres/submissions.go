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

// SubmissionRepository implements port.SubmissionRepository using PostgreSQL.
type SubmissionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSubmissionRepository wires a PostgreSQL-backed submission repository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *SubmissionRepository) WithTx(tx pgx.Tx) *SubmissionRepository {
	if tx == nil {
		return r
	}
	return &SubmissionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var submissionColumns = []string{
	"id", "submission_id",
	"region_id", "region_name", "province_id", "province_name",
	"municipality_id", "municipality_name", "barangay_id", "barangay_name",
	"second_party_name", "second_party_position", "date_signed", "stage",
	"moa_file_path", "moa_file_name",
	"status", "tier", "successful_events_count", "moa_expiry_date", "is_moa_expired",
	"rejection_reason", "admin_notes",
	"approved_by", "approved_at", "reviewed_by", "reviewed_at",
	"assigned_user_id", "submitted_ip", "submitted_user_agent",
	"created_at", "updated_at",
}

func scanSubmission(row pgx.Row) (*domain.BarangaySubmission, error) {
	var (
		s               domain.BarangaySubmission
		moaExpiryDate   sql.NullTime
		rejectionReason sql.NullString
		adminNotes      sql.NullString
		approvedBy      sql.NullString
		approvedAt      sql.NullTime
		reviewedBy      sql.NullString
		reviewedAt      sql.NullTime
		assignedUserID  sql.NullString
		submittedIP     sql.NullString
		submittedUA     sql.NullString
	)

	if err := row.Scan(
		&s.ID, &s.SubmissionID,
		&s.RegionID, &s.RegionName, &s.ProvinceID, &s.ProvinceName,
		&s.MunicipalityID, &s.MunicipalityName, &s.BarangayID, &s.BarangayName,
		&s.SecondPartyName, &s.SecondPartyPosition, &s.DateSigned, &s.Stage,
		&s.MoaFilePath, &s.MoaFileName,
		&s.Status, &s.Tier, &s.SuccessfulEventsCount, &moaExpiryDate, &s.IsMoaExpired,
		&rejectionReason, &adminNotes,
		&approvedBy, &approvedAt, &reviewedBy, &reviewedAt,
		&assignedUserID, &submittedIP, &submittedUA,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if moaExpiryDate.Valid {
		t := moaExpiryDate.Time
		s.MoaExpiryDate = &t
	}
	if rejectionReason.Valid {
		s.RejectionReason = &rejectionReason.String
	}
	if adminNotes.Valid {
		s.AdminNotes = &adminNotes.String
	}
	if approvedBy.Valid {
		s.ApprovedByID = &approvedBy.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		s.ApprovedAt = &t
	}
	if reviewedBy.Valid {
		s.ReviewedByID = &reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		s.ReviewedAt = &t
	}
	if assignedUserID.Valid {
		s.AssignedUserID = &assignedUserID.String
	}
	if submittedIP.Valid {
		s.SubmittedIP = &submittedIP.String
	}
	if submittedUA.Valid {
		s.SubmittedUserAgent = &submittedUA.String
	}

	return &s, nil
}

// Create inserts a new submission row.
func (r *SubmissionRepository) Create(ctx context.Context, s domain.BarangaySubmission) error {
	stmt, args, err := r.builder.Insert("chp.barangay_submissions").
		Columns(submissionColumns...).
		Values(
			s.ID, s.SubmissionID,
			s.RegionID, s.RegionName, s.ProvinceID, s.ProvinceName,
			s.MunicipalityID, s.MunicipalityName, s.BarangayID, s.BarangayName,
			s.SecondPartyName, s.SecondPartyPosition, s.DateSigned, s.Stage,
			s.MoaFilePath, s.MoaFileName,
			s.Status, s.Tier, s.SuccessfulEventsCount, s.MoaExpiryDate, s.IsMoaExpired,
			s.RejectionReason, s.AdminNotes,
			s.ApprovedByID, s.ApprovedAt, s.ReviewedByID, s.ReviewedAt,
			s.AssignedUserID, s.SubmittedIP, s.SubmittedUserAgent,
			s.CreatedAt, s.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert submission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	return nil
}

func (r *SubmissionRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.BarangaySubmission, error) {
	stmt, args, err := r.builder.Select(submissionColumns...).
		From("chp.barangay_submissions").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select submission sql: %w", err)
	}

	submission, err := scanSubmission(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	return submission, nil
}

// GetByID retrieves a submission by internal id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.BarangaySubmission, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetBySubmissionID retrieves a submission by its business identifier.
func (r *SubmissionRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*domain.BarangaySubmission, error) {
	return r.getBy(ctx, squirrel.Eq{"submission_id": submissionID})
}

func (r *SubmissionRepository) list(ctx context.Context, apply func(squirrel.SelectBuilder) squirrel.SelectBuilder) ([]domain.BarangaySubmission, error) {
	query := r.builder.Select(submissionColumns...).
		From("chp.barangay_submissions").
		OrderBy("created_at DESC")
	if apply != nil {
		query = apply(query)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list submissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]domain.BarangaySubmission, 0)
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, *submission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return submissions, nil
}

// List retrieves submissions, optionally filtered by status.
func (r *SubmissionRepository) List(ctx context.Context, status *domain.SubmissionStatus) ([]domain.BarangaySubmission, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if status != nil {
			q = q.Where(squirrel.Eq{"status": *status})
		}
		return q
	})
}

// ListAll retrieves every submission.
func (r *SubmissionRepository) ListAll(ctx context.Context) ([]domain.BarangaySubmission, error) {
	return r.list(ctx, nil)
}

// ListExpiring returns APPROVED, not yet expired submissions whose MOA expiry
// date is before now.
func (r *SubmissionRepository) ListExpiring(ctx context.Context, now time.Time) ([]domain.BarangaySubmission, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return q.Where(squirrel.Eq{"status": domain.SubmissionApproved}).
			Where(squirrel.Eq{"is_moa_expired": false}).
			Where(squirrel.Lt{"moa_expiry_date": now})
	})
}

// Update persists the full mutable state of a submission.
func (r *SubmissionRepository) Update(ctx context.Context, s domain.BarangaySubmission) error {
	stmt, args, err := r.builder.Update("chp.barangay_submissions").
		Set("second_party_name", s.SecondPartyName).
		Set("second_party_position", s.SecondPartyPosition).
		Set("date_signed", s.DateSigned).
		Set("stage", s.Stage).
		Set("moa_file_path", s.MoaFilePath).
		Set("moa_file_name", s.MoaFileName).
		Set("status", s.Status).
		Set("tier", s.Tier).
		Set("successful_events_count", s.SuccessfulEventsCount).
		Set("moa_expiry_date", s.MoaExpiryDate).
		Set("is_moa_expired", s.IsMoaExpired).
		Set("rejection_reason", s.RejectionReason).
		Set("admin_notes", s.AdminNotes).
		Set("approved_by", s.ApprovedByID).
		Set("approved_at", s.ApprovedAt).
		Set("reviewed_by", s.ReviewedByID).
		Set("reviewed_at", s.ReviewedAt).
		Set("assigned_user_id", s.AssignedUserID).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update submission sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.SubmissionRepository = (*SubmissionRepository)(nil)
