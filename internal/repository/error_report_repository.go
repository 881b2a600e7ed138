package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stanstork/timeline-notify/internal/models"
)

type ErrorReportRepository interface {
	Create(ctx context.Context, params CreateErrorReportParams) (models.ErrorReport, error)
	ListRecent(ctx context.Context, limit int) ([]models.ErrorReport, error)
}

type CreateErrorReportParams struct {
	ID          string
	Plugin      *models.PluginKind
	Message     string
	Destination string
}

type errorReportRepository struct {
	db *sql.DB
}

func NewErrorReportRepository(db *sql.DB) ErrorReportRepository {
	return &errorReportRepository{db: db}
}

func (r *errorReportRepository) Create(ctx context.Context, params CreateErrorReportParams) (models.ErrorReport, error) {
	const query = `
		INSERT INTO timeline.error_reports (id, plugin, message, destination)
		VALUES ($1, $2, $3, $4)
		RETURNING id, plugin, message, destination, created_at
	`

	row := r.db.QueryRowContext(ctx, query, params.args()...)
	report, err := scanErrorReport(row)
	if err != nil {
		return models.ErrorReport{}, errors.Wrap(err, "insert error report")
	}
	return report, nil
}

// args maps params onto the INSERT columns, generating an id when none is
// set. A nil plugin stores NULL.
func (params CreateErrorReportParams) args() []interface{} {
	var plugin interface{}
	if params.Plugin != nil {
		plugin = string(*params.Plugin)
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}
	return []interface{}{id, plugin, params.Message, params.Destination}
}

func (r *errorReportRepository) ListRecent(ctx context.Context, limit int) ([]models.ErrorReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	const query = `
		SELECT id, plugin, message, destination, created_at
		FROM timeline.error_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.ErrorReport
	for rows.Next() {
		report, err := scanErrorReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func scanErrorReport(scanner rowScanner) (models.ErrorReport, error) {
	var (
		report      models.ErrorReport
		plugin      sql.NullString
		destination sql.NullString
	)

	if err := scanner.Scan(
		&report.ID,
		&plugin,
		&report.Message,
		&destination,
		&report.CreatedAt,
	); err != nil {
		return models.ErrorReport{}, err
	}

	if plugin.Valid {
		kind := models.PluginKind(plugin.String)
		report.Plugin = &kind
	}
	report.Destination = destination.String

	return report, nil
}
