package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
)

const earthRadiusKm = 6371

func init() {
	// Registered against the driver so the distance predicate runs inside the
	// query and only matching rows cross the storage boundary.
	sqlite.MustRegisterDeterministicScalarFunction("haversine_km", 4,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			vals := make([]float64, 4)
			for i, arg := range args {
				v, err := toFloat(arg)
				if err != nil {
					return nil, fmt.Errorf("haversine_km arg %d: %w", i, err)
				}
				vals[i] = v
			}
			return haversineKm(vals[0], vals[1], vals[2], vals[3]), nil
		})
}

func toFloat(v driver.Value) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("not numeric: %T", v)
	}
}

// haversineKm computes the great-circle distance between two points in
// decimal degrees on a sphere with Earth's radius.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// reasonable defaults for sqlite with concurrent readers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}
