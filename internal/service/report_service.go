package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"georeport/internal/domain"
	"georeport/internal/enrich"
	"georeport/internal/repository"
	"georeport/internal/storage"
)

var (
	// ErrEnrichmentFailed indicates one of the external enrichment calls
	// errored or timed out. The submission is aborted; nothing is persisted.
	ErrEnrichmentFailed = errors.New("enrichment failed")
	// ErrStorageFailed indicates the upload or the report insert failed.
	ErrStorageFailed = errors.New("storage failed")
)

// SubmitInput carries the raw fields of one report submission.
type SubmitInput struct {
	APIKey      string
	Latitude    float64
	Longitude   float64
	Description string
	SourceAddr  string
	FileName    string
	File        io.Reader
}

// ReportService is the ingestion pipeline and the query engine. Submit is
// the sole writer of reports; Query only reads.
type ReportService interface {
	Submit(ctx context.Context, in SubmitInput) (*domain.Report, error)
	Query(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
}

type reportService struct {
	reports     repository.ReportRepository
	users       UserService
	enricher    enrich.Enricher
	uploads     storage.Service
	clock       clockwork.Clock
	callTimeout time.Duration
}

func NewReportService(
	reports repository.ReportRepository,
	users UserService,
	enricher enrich.Enricher,
	uploads storage.Service,
	clock clockwork.Clock,
	callTimeout time.Duration,
) ReportService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &reportService{
		reports:     reports,
		users:       users,
		enricher:    enricher,
		uploads:     uploads,
		clock:       clock,
		callTimeout: callTimeout,
	}
}

func (s *reportService) Submit(ctx context.Context, in SubmitInput) (*domain.Report, error) {
	user, err := s.users.ResolveAPIKey(ctx, in.APIKey)
	if err != nil {
		return nil, err
	}

	// Stamped before any external call so provider latency cannot skew the
	// recorded submission time.
	datetimeEntry := s.clock.Now().Format(domain.TimeLayout)

	var (
		location  enrich.Location
		temp      string
		sentiment string
	)

	// The three calls have no data dependency on each other. Any single
	// failure fails the whole submission; there is no partial record shape.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		location, err = withTimeout(gctx, s.callTimeout, func(ctx context.Context) (enrich.Location, error) {
			return s.enricher.ReverseGeocode(ctx, in.Latitude, in.Longitude)
		})
		return err
	})
	g.Go(func() error {
		var err error
		temp, err = withTimeout(gctx, s.callTimeout, func(ctx context.Context) (string, error) {
			return s.enricher.CurrentTemperature(ctx, in.Latitude, in.Longitude)
		})
		return err
	})
	g.Go(func() error {
		var err error
		sentiment, err = withTimeout(gctx, s.callTimeout, func(ctx context.Context) (string, error) {
			return s.enricher.ClassifySentiment(ctx, in.Description)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnrichmentFailed, err)
	}

	filePath := ""
	if in.File != nil {
		filePath, err = s.uploads.SaveUpload(ctx, in.FileName, in.File)
		if err != nil {
			return nil, fmt.Errorf("%w: save upload: %v", ErrStorageFailed, err)
		}
	}

	report := &domain.Report{
		UserID:         user.ID,
		Username:       user.Username,
		DatetimeEntry:  datetimeEntry,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		State:          location.State,
		Country:        location.Country,
		Temperature:    temp,
		IPAddress:      in.SourceAddr,
		Description:    in.Description,
		Classification: sentiment,
		FilePath:       filePath,
	}

	if _, err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	return report, nil
}

func (s *reportService) Query(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	return s.reports.Query(ctx, filter)
}

func withTimeout[T any](ctx context.Context, timeout time.Duration, call func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx)
}
