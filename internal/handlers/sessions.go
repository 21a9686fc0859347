package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuroscreen/internal/models"
	"neuroscreen/internal/repository"
)

// sessionCookieKey holds the screening session id in the browser cookie so
// telemetry posts can be correlated without authentication.
const sessionCookieKey = "screeningSessionID"

type SessionsHandler struct {
	log *zap.Logger
}

func NewSessionsHandler(log *zap.Logger) *SessionsHandler {
	return &SessionsHandler{log: log}
}

type startSessionRequest struct {
	PatientID string `json:"patientId"`
}

// Start opens a new screening session and binds it to the browser session.
func (h *SessionsHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	screening, err := repository.CreateSession(req.PatientID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.log.Error("Failed to create screening session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionCookieKey, screening.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save browser session", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": screening.ID, "startedAt": screening.StartedAt})
}

type telemetryEvent struct {
	Type       string          `json:"type"`
	ItemID     string          `json:"itemId"`
	ClientTime float64         `json:"clientTime"`
	Payload    json.RawMessage `json:"payload"`
}

type telemetryRequest struct {
	Events        []telemetryEvent `json:"events"`
	CompletedTest string           `json:"completedTest,omitempty"`
	Completed     bool             `json:"completed,omitempty"`
}

// SaveTelemetry persists a batch of raw test events for a session. The path
// id must match the screening session bound to the browser cookie by Start;
// telemetry cannot be posted into someone else's session.
func (h *SessionsHandler) SaveTelemetry(c *gin.Context) {
	sessionID := c.Param("id")

	bound, ok := sessions.Default(c).Get(sessionCookieKey).(string)
	if !ok || bound != sessionID {
		h.log.Warn("Telemetry rejected, session id not bound to this browser",
			zap.String("sessionID", sessionID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Session not bound to this browser"})
		return
	}

	if _, err := repository.GetSession(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	var req telemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Failed to bind telemetry data", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	events := make([]models.TelemetryEvent, 0, len(req.Events))
	now := time.Now().UTC()
	for _, e := range req.Events {
		events = append(events, models.TelemetryEvent{
			SessionID:  sessionID,
			EventType:  e.Type,
			ItemID:     e.ItemID,
			Payload:    e.Payload,
			ClientTime: e.ClientTime,
			CreatedAt:  now,
		})
	}

	if err := repository.SaveTelemetryEvents(events); err != nil {
		h.log.Error("Failed to save telemetry events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save telemetry"})
		return
	}

	if req.CompletedTest != "" {
		if err := repository.MarkTestCompleted(sessionID, req.CompletedTest); err != nil {
			h.log.Error("Failed to mark test completed", zap.Error(err))
		}
	}
	if req.Completed {
		if err := repository.CompleteSession(sessionID); err != nil {
			h.log.Error("Failed to complete session", zap.Error(err))
		}
	}

	c.Status(http.StatusOK)
}
