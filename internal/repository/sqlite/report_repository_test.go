package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"georeport/internal/domain"
	"georeport/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestReportRepo(t *testing.T) repository.ReportRepository {
	t.Helper()
	repo := NewReportRepository(newTestDB(t))
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func seedReport(t *testing.T, repo repository.ReportRepository, entry string, lat, long float64, description string) domain.Report {
	t.Helper()
	report := domain.Report{
		UserID:         1,
		Username:       "alice",
		DatetimeEntry:  entry,
		Latitude:       lat,
		Longitude:      long,
		State:          "New York",
		Country:        "United States",
		Temperature:    "71.3°F",
		IPAddress:      "127.0.0.1",
		Description:    description,
		Classification: "NEGATIVE",
		FilePath:       "data/uploads/x.jpg",
	}
	_, err := repo.Create(context.Background(), &report)
	require.NoError(t, err)
	return report
}

func ptr(v float64) *float64 { return &v }

func TestHaversineKm(t *testing.T) {
	// one degree of longitude at the equator
	assert.InDelta(t, 111.19, haversineKm(0, 0, 0, 1), 0.05)
	assert.Zero(t, haversineKm(40.7, -74.0, 40.7, -74.0))
}

func TestReportRepository_DistanceFilter(t *testing.T) {
	ctx := context.Background()
	repo := newTestReportRepo(t)

	origin := seedReport(t, repo, "2026-01-01 10:00:00", 0, 0, "at origin")
	oneDegreeEast := seedReport(t, repo, "2026-01-01 11:00:00", 0, 1, "one degree east")

	// haversine((0,0),(0,1)) ≈ 111.19 km
	got, err := repo.Query(ctx, domain.ReportFilter{Lat: ptr(0), Long: ptr(0), Dist: ptr(112)})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.Query(ctx, domain.ReportFilter{Lat: ptr(0), Long: ptr(0), Dist: ptr(100)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, origin.ID, got[0].ID)
	assert.NotEqual(t, oneDegreeEast.ID, got[0].ID)
}

func TestReportRepository_DistanceFilterIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := newTestReportRepo(t)

	seedReport(t, repo, "2026-01-01 10:00:00", 0, 0, "near")
	seedReport(t, repo, "2026-01-01 11:00:00", 50, 50, "far")

	// lat+long without dist must not partially apply the filter
	partial, err := repo.Query(ctx, domain.ReportFilter{Lat: ptr(0), Long: ptr(0)})
	require.NoError(t, err)

	unfiltered, err := repo.Query(ctx, domain.ReportFilter{})
	require.NoError(t, err)

	assert.Equal(t, unfiltered, partial)
	require.Len(t, partial, 2)
}

func TestReportRepository_Sort(t *testing.T) {
	ctx := context.Background()
	repo := newTestReportRepo(t)

	t1 := seedReport(t, repo, "2026-01-01 08:00:00", 0, 0, "first")
	t2 := seedReport(t, repo, "2026-01-02 08:00:00", 0, 0, "second")
	t3 := seedReport(t, repo, "2026-01-03 08:00:00", 0, 0, "third")

	newest, err := repo.Query(ctx, domain.ReportFilter{Sort: "newest"})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, []int64{t3.ID, t2.ID, t1.ID}, ids(newest))

	// the sort key is two-valued: anything but "newest" sorts ascending,
	// including "oldest"
	for _, sort := range []string{"oldest", "anything-else"} {
		ascending, err := repo.Query(ctx, domain.ReportFilter{Sort: sort})
		require.NoError(t, err)
		assert.Equal(t, []int64{t1.ID, t2.ID, t3.ID}, ids(ascending), "sort=%s", sort)
	}
}

func TestReportRepository_MaxRespectsSortOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestReportRepo(t)

	var seeded []domain.Report
	for i := 1; i <= 4; i++ {
		seeded = append(seeded, seedReport(t, repo, fmt.Sprintf("2026-01-0%d 08:00:00", i), 0, 0, "r"))
	}

	got, err := repo.Query(ctx, domain.ReportFilter{Sort: "newest", Max: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int64{seeded[3].ID, seeded[2].ID}, ids(got))
}

func TestReportRepository_DateBoundsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := newTestReportRepo(t)

	early := seedReport(t, repo, "2026-01-01 08:00:00", 0, 0, "early")
	mid := seedReport(t, repo, "2026-01-02 08:00:00", 0, 0, "mid")
	late := seedReport(t, repo, "2026-01-03 08:00:00", 0, 0, "late")

	got, err := repo.Query(ctx, domain.ReportFilter{
		StartDate: "2026-01-01 08:00:00",
		EndDate:   "2026-01-02 08:00:00",
		Sort:      "oldest",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{early.ID, mid.ID}, ids(got))

	got, err = repo.Query(ctx, domain.ReportFilter{StartDate: "2026-01-02 08:00:01"})
	require.NoError(t, err)
	assert.Equal(t, []int64{late.ID}, ids(got))
}

func TestReportRepository_EmptyResultIsNotAnError(t *testing.T) {
	repo := newTestReportRepo(t)

	got, err := repo.Query(context.Background(), domain.ReportFilter{StartDate: "2030-01-01 00:00:00"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReportRepository_FilterValuesAreInert(t *testing.T) {
	ctx := context.Background()
	repo := newTestReportRepo(t)

	secret := seedReport(t, repo, "2026-01-01 08:00:00", 0, 0, "unrelated row")

	// metacharacters in the description survive the roundtrip untouched
	hostile := seedReport(t, repo, "2026-01-02 08:00:00", 0, 0, `'; DROP TABLE reports; --`)
	got, err := repo.Query(ctx, domain.ReportFilter{StartDate: "2026-01-02 00:00:00"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, hostile.Description, got[0].Description)

	// a tautology smuggled into a date bound must not widen the match set
	got, err = repo.Query(ctx, domain.ReportFilter{StartDate: `2030-01-01' OR '1'='1`})
	require.NoError(t, err)
	assert.Empty(t, got)

	// the table survived and still holds both rows
	got, err = repo.Query(ctx, domain.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, secret.ID, got[0].ID)
}

func TestBuildReportQuery_BindsAllValues(t *testing.T) {
	filter := domain.ReportFilter{
		StartDate: "2026-01-01 00:00:00",
		EndDate:   "2026-02-01 00:00:00",
		Lat:       ptr(40.7),
		Long:      ptr(-74.0),
		Dist:      ptr(25),
		Sort:      "newest",
		Max:       10,
	}

	query, args, err := buildReportQuery(filter)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "from reports")
	require.Contains(t, q, "datetime_entry >= ?")
	require.Contains(t, q, "datetime_entry <= ?")
	require.Contains(t, q, "haversine_km(latitude, longitude, ?, ?) <= ?")
	require.Contains(t, q, "order by datetime_entry desc")
	require.Contains(t, q, "limit 10")

	// every caller value travels as an argument, never in the query text
	require.Equal(t, []any{"2026-01-01 00:00:00", "2026-02-01 00:00:00", 40.7, -74.0, 25.0}, args)
	assert.NotContains(t, query, "2026-01-01")
	assert.NotContains(t, query, "40.7")
}

func TestBuildReportQuery_NoFilters(t *testing.T) {
	query, args, err := buildReportQuery(domain.ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, args)
	q := strings.ToLower(query)
	assert.NotContains(t, q, "where")
	assert.NotContains(t, q, "order by")
	assert.NotContains(t, q, "limit")
}

func ids(reports []domain.Report) []int64 {
	out := make([]int64, len(reports))
	for i := range reports {
		out[i] = reports[i].ID
	}
	return out
}
