package domain

import "time"

// User represents a registered submitter of reports.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	APIKey       string
	CreatedAt    time.Time
}
