package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// ScreeningSession tracks one browser session of the screening tool.
// Sessions and their telemetry are the only durable state in the service;
// generated reports are never stored.
type ScreeningSession struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	PatientID      string `gorm:"index"`
	UserAgent      string
	ClientIP       string
	TestsCompleted pq.StringArray `gorm:"type:text[]"`
	StartedAt      time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TelemetryEvent is one raw event reported by the client during a test.
type TelemetryEvent struct {
	ID         int              `gorm:"primaryKey"`
	SessionID  string           `gorm:"type:uuid;index"`
	Session    ScreeningSession `gorm:"foreignKey:SessionID"`
	EventType  string
	ItemID     string
	Payload    json.RawMessage `gorm:"type:jsonb"`
	ClientTime float64 // ms since test start, as reported by the browser
	CreatedAt  time.Time
}
