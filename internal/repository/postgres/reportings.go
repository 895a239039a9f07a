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

// ReportingRepository implements port.ReportingRepository using PostgreSQL.
type ReportingRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewReportingRepository wires a PostgreSQL-backed reporting repository.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepository {
	return &ReportingRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ReportingRepository) WithTx(tx pgx.Tx) *ReportingRepository {
	if tx == nil {
		return r
	}
	return &ReportingRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var reportingColumns = []string{
	"id", "report_id", "event_ref_id", "reported_by",
	"event_name", "event_description", "event_date", "event_location", "campaign_name",
	"pic_name", "cash_allocation", "diamonds_expenditure", "total_cost_php",
	"report_file_path", "report_file_name",
	"status",
	"first_clearance_status", "first_cleared_by", "first_cleared_at",
	"final_clearance_status", "final_cleared_by", "final_cleared_at",
	"admin_notes", "reviewed_by", "reviewed_at", "approved_by", "approved_at",
	"created_at", "updated_at",
}

func scanReporting(row pgx.Row) (*domain.EventReporting, error) {
	var (
		rep            domain.EventReporting
		reportFilePath sql.NullString
		reportFileName sql.NullString
		firstClearedBy sql.NullString
		firstClearedAt sql.NullTime
		finalClearedBy sql.NullString
		finalClearedAt sql.NullTime
		adminNotes     sql.NullString
		reviewedBy     sql.NullString
		reviewedAt     sql.NullTime
		approvedBy     sql.NullString
		approvedAt     sql.NullTime
	)

	if err := row.Scan(
		&rep.ID, &rep.ReportID, &rep.EventRefID, &rep.ReportedByID,
		&rep.EventName, &rep.EventDescription, &rep.EventDate, &rep.EventLocation, &rep.CampaignName,
		&rep.PicName, &rep.CashAllocation, &rep.DiamondsExpenditure, &rep.TotalCostPHP,
		&reportFilePath, &reportFileName,
		&rep.Status,
		&rep.FirstClearanceStatus, &firstClearedBy, &firstClearedAt,
		&rep.FinalClearanceStatus, &finalClearedBy, &finalClearedAt,
		&adminNotes, &reviewedBy, &reviewedAt, &approvedBy, &approvedAt,
		&rep.CreatedAt, &rep.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if reportFilePath.Valid {
		rep.ReportFilePath = &reportFilePath.String
	}
	if reportFileName.Valid {
		rep.ReportFileName = &reportFileName.String
	}
	if firstClearedBy.Valid {
		rep.FirstClearedByID = &firstClearedBy.String
	}
	if firstClearedAt.Valid {
		t := firstClearedAt.Time
		rep.FirstClearedAt = &t
	}
	if finalClearedBy.Valid {
		rep.FinalClearedByID = &finalClearedBy.String
	}
	if finalClearedAt.Valid {
		t := finalClearedAt.Time
		rep.FinalClearedAt = &t
	}
	if adminNotes.Valid {
		rep.AdminNotes = &adminNotes.String
	}
	if reviewedBy.Valid {
		rep.ReviewedByID = &reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		rep.ReviewedAt = &t
	}
	if approvedBy.Valid {
		rep.ApprovedByID = &approvedBy.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		rep.ApprovedAt = &t
	}

	return &rep, nil
}

// Create inserts a new report row.
func (r *ReportingRepository) Create(ctx context.Context, rep domain.EventReporting) error {
	stmt, args, err := r.builder.Insert("chp.event_reportings").
		Columns(reportingColumns...).
		Values(
			rep.ID, rep.ReportID, rep.EventRefID, rep.ReportedByID,
			rep.EventName, rep.EventDescription, rep.EventDate, rep.EventLocation, rep.CampaignName,
			rep.PicName, rep.CashAllocation, rep.DiamondsExpenditure, rep.TotalCostPHP,
			rep.ReportFilePath, rep.ReportFileName,
			rep.Status,
			rep.FirstClearanceStatus, rep.FirstClearedByID, rep.FirstClearedAt,
			rep.FinalClearanceStatus, rep.FinalClearedByID, rep.FinalClearedAt,
			rep.AdminNotes, rep.ReviewedByID, rep.ReviewedAt, rep.ApprovedByID, rep.ApprovedAt,
			rep.CreatedAt, rep.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert report sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

func (r *ReportingRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.EventReporting, error) {
	stmt, args, err := r.builder.Select(reportingColumns...).
		From("chp.event_reportings").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select report sql: %w", err)
	}

	report, err := scanReporting(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	return report, nil
}

// GetByID retrieves a report by internal id.
func (r *ReportingRepository) GetByID(ctx context.Context, id string) (*domain.EventReporting, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByReportID retrieves a report by its business identifier.
func (r *ReportingRepository) GetByReportID(ctx context.Context, reportID string) (*domain.EventReporting, error) {
	return r.getBy(ctx, squirrel.Eq{"report_id": reportID})
}

func (r *ReportingRepository) list(ctx context.Context, apply func(squirrel.SelectBuilder) squirrel.SelectBuilder) ([]domain.EventReporting, error) {
	query := r.builder.Select(reportingColumns...).
		From("chp.event_reportings").
		OrderBy("created_at DESC")
	if apply != nil {
		query = apply(query)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reports sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.EventReporting, 0)
	for rows.Next() {
		report, err := scanReporting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// List retrieves reports, optionally filtered by status.
func (r *ReportingRepository) List(ctx context.Context, status *domain.ReportStatus) ([]domain.EventReporting, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if status != nil {
			q = q.Where(squirrel.Eq{"status": *status})
		}
		return q
	})
}

// ListAll retrieves every report.
func (r *ReportingRepository) ListAll(ctx context.Context) ([]domain.EventReporting, error) {
	return r.list(ctx, nil)
}

// ListByReporter retrieves the reports filed by one user.
func (r *ReportingRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.EventReporting, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return q.Where(squirrel.Eq{"reported_by": reporterID})
	})
}

// ExistsForEventAndReporter reports whether the reporter already filed a report
// against the event.
func (r *ReportingRepository) ExistsForEventAndReporter(ctx context.Context, eventRefID, reporterID string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("chp.event_reportings").
		Where(squirrel.Eq{"event_ref_id": eventRefID}).
		Where(squirrel.Eq{"reported_by": reporterID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build report exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan report exists: %w", err)
	}

	return true, nil
}

// Update persists the full mutable state of a report.
func (r *ReportingRepository) Update(ctx context.Context, rep domain.EventReporting) error {
	stmt, args, err := r.builder.Update("chp.event_reportings").
		Set("event_name", rep.EventName).
		Set("event_description", rep.EventDescription).
		Set("event_date", rep.EventDate).
		Set("event_location", rep.EventLocation).
		Set("campaign_name", rep.CampaignName).
		Set("pic_name", rep.PicName).
		Set("cash_allocation", rep.CashAllocation).
		Set("diamonds_expenditure", rep.DiamondsExpenditure).
		Set("total_cost_php", rep.TotalCostPHP).
		Set("report_file_path", rep.ReportFilePath).
		Set("report_file_name", rep.ReportFileName).
		Set("status", rep.Status).
		Set("first_clearance_status", rep.FirstClearanceStatus).
		Set("first_cleared_by", rep.FirstClearedByID).
		Set("first_cleared_at", rep.FirstClearedAt).
		Set("final_clearance_status", rep.FinalClearanceStatus).
		Set("final_cleared_by", rep.FinalClearedByID).
		Set("final_cleared_at", rep.FinalClearedAt).
		Set("admin_notes", rep.AdminNotes).
		Set("reviewed_by", rep.ReviewedByID).
		Set("reviewed_at", rep.ReviewedAt).
		Set("approved_by", rep.ApprovedByID).
		Set("approved_at", rep.ApprovedAt).
		Set("updated_at", rep.UpdatedAt).
		Where(squirrel.Eq{"id": rep.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update report sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a report row.
func (r *ReportingRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("chp.event_reportings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete report sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ReportingRepository = (*ReportingRepository)(nil)
