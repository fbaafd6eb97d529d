// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamp is a nullable instant stored as unix milliseconds, so that
// SQLite compares expiries numerically.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// NewTimestamp returns a valid Timestamp truncated to millisecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: time.UnixMilli(t.UnixMilli()).UTC(), Valid: true}
}

// Millis returns the value as stored in the database.
func (t Timestamp) Millis() int64 {
	return t.Time.UnixMilli()
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case int64:
		*t = Timestamp{Time: time.UnixMilli(v).UTC(), Valid: true}
	default:
		return fmt.Errorf("models: cannot scan %T into Timestamp", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Millis(), nil
}
