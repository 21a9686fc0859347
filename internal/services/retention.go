package services

import (
	"time"

	"go.uber.org/zap"

	"neuroscreen/internal/repository"
)

// RetentionSweeper deletes telemetry events past their configured age. Raw
// browser telemetry is the only durable state in the service and has no
// value once it ages out.
type RetentionSweeper struct {
	log  *zap.Logger
	days int
}

func NewRetentionSweeper(log *zap.Logger, days int) *RetentionSweeper {
	return &RetentionSweeper{log: log, days: days}
}

// Start runs the sweeper in a goroutine.
func (s *RetentionSweeper) Start() {
	s.log.Info("Starting telemetry retention sweeper", zap.Int("retention_days", s.days))
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		s.sweep()
		for {
			<-ticker.C
			s.sweep()
		}
	}()
}

func (s *RetentionSweeper) sweep() {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.days)
	deleted, err := repository.PurgeTelemetryBefore(cutoff)
	if err != nil {
		s.log.Error("Telemetry retention sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.log.Info("Purged expired telemetry events", zap.Int64("deleted", deleted))
	}
}
