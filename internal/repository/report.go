package repository

import (
	"context"

	"georeport/internal/domain"
)

// ReportRepository exposes persistence operations for Report records.
// Create is the only write path; reports are never updated or deleted.
type ReportRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, report *domain.Report) (int64, error)
	Query(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
}
