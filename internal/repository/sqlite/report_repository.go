package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"georeport/internal/domain"
	"georeport/internal/repository"
)

const createReportsTable = `
CREATE TABLE IF NOT EXISTS reports (
	report_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	username TEXT NOT NULL,
	datetime_entry TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	state TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	temperature TEXT NOT NULL DEFAULT '',
	ip_address TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	classification TEXT NOT NULL DEFAULT '',
	file_path TEXT NOT NULL DEFAULT ''
);
`

var reportColumns = []string{
	"report_id",
	"user_id",
	"username",
	"datetime_entry",
	"latitude",
	"longitude",
	"state",
	"country",
	"temperature",
	"ip_address",
	"description",
	"classification",
	"file_path",
}

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReportsTable); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}
	return nil
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO reports (user_id, username, datetime_entry, latitude, longitude, state, country, temperature, ip_address, description, classification, file_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.UserID,
		report.Username,
		report.DatetimeEntry,
		report.Latitude,
		report.Longitude,
		report.State,
		report.Country,
		report.Temperature,
		report.IPAddress,
		report.Description,
		report.Classification,
		report.FilePath,
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report last insert id: %w", err)
	}
	report.ID = id
	return id, nil
}

// Query composes the filter into a parameterized SELECT. Caller-supplied
// values are always bound as arguments, never interpolated into the query
// text.
func (r *ReportRepository) Query(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	query, args, err := buildReportQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build report query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.Username,
			&report.DatetimeEntry,
			&report.Latitude,
			&report.Longitude,
			&report.State,
			&report.Country,
			&report.Temperature,
			&report.IPAddress,
			&report.Description,
			&report.Classification,
			&report.FilePath,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

func buildReportQuery(filter domain.ReportFilter) (string, []any, error) {
	builder := sq.Select(reportColumns...).From("reports")

	if filter.StartDate != "" {
		builder = builder.Where(sq.GtOrEq{"datetime_entry": filter.StartDate})
	}
	if filter.EndDate != "" {
		builder = builder.Where(sq.LtOrEq{"datetime_entry": filter.EndDate})
	}
	// The distance filter is all-or-nothing: partial coordinates skip it.
	if filter.HasDistance() {
		builder = builder.Where(
			sq.Expr("haversine_km(latitude, longitude, ?, ?) <= ?",
				*filter.Lat, *filter.Long, *filter.Dist),
		)
	}
	switch {
	case filter.Sort == "newest":
		builder = builder.OrderBy("datetime_entry DESC")
	case filter.Sort != "":
		builder = builder.OrderBy("datetime_entry ASC")
	}
	if filter.Max > 0 {
		builder = builder.Limit(uint64(filter.Max))
	}

	return builder.ToSql()
}
