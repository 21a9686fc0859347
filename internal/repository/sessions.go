package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"neuroscreen/internal/database"
	"neuroscreen/internal/models"
)

// CreateSession opens a new screening session for a patient.
func CreateSession(patientID, userAgent, clientIP string) (*models.ScreeningSession, error) {
	session := &models.ScreeningSession{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		UserAgent:      userAgent,
		ClientIP:       clientIP,
		TestsCompleted: pq.StringArray{},
		StartedAt:      time.Now().UTC(),
	}
	if err := database.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a session by id.
func GetSession(id string) (*models.ScreeningSession, error) {
	var session models.ScreeningSession
	if err := database.DB.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveTelemetryEvents persists a batch of telemetry events for a session.
func SaveTelemetryEvents(events []models.TelemetryEvent) error {
	if len(events) == 0 {
		return nil
	}
	return database.DB.Create(&events).Error
}

// MarkTestCompleted appends a test name to the session's completed list.
func MarkTestCompleted(sessionID, test string) error {
	session, err := GetSession(sessionID)
	if err != nil {
		return err
	}
	for _, done := range session.TestsCompleted {
		if done == test {
			return nil
		}
	}
	session.TestsCompleted = append(session.TestsCompleted, test)
	return database.DB.Model(session).Update("tests_completed", session.TestsCompleted).Error
}

// CompleteSession stamps a session as finished.
func CompleteSession(id string) error {
	now := time.Now().UTC()
	return database.DB.Model(&models.ScreeningSession{}).
		Where("id = ?", id).
		Update("completed_at", &now).Error
}

// PurgeTelemetryBefore deletes telemetry older than the cutoff. Sessions are
// kept; only the raw event payloads age out.
func PurgeTelemetryBefore(cutoff time.Time) (int64, error) {
	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.TelemetryEvent{})
	return result.RowsAffected, result.Error
}
