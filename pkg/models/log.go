package models

import (
	"time"

	"github.com/google/uuid"
)

// Log levels recognized by the dashboard. Ingestion does not reject other
// strings; the column is free text and unknown levels render unstyled.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelDebug = "debug"
)

// ValidLevel reports whether level is one of the known log levels.
func ValidLevel(level string) bool {
	switch level {
	case LevelInfo, LevelWarn, LevelError, LevelDebug:
		return true
	}
	return false
}

// LogEntry is one immutable log record owned by a package. Meta carries
// arbitrary client-supplied structure and round-trips through a JSONB column.
type LogEntry struct {
	ID          uuid.UUID      `db:"id"           json:"id"`
	PackageName string         `db:"package_name" json:"package_name"`
	Level       string         `db:"level"        json:"level"`
	Message     string         `db:"message"      json:"message"`
	Meta        map[string]any `db:"meta"         json:"meta,omitempty"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
}
