package repository

import "neuroscreen/internal/database"

// SessionVolumePoint is one day's session count for the overview chart.
type SessionVolumePoint struct {
	Date  string
	Count int
}

// ReactionTrendPoint is one day's mean reaction time across all sessions.
type ReactionTrendPoint struct {
	Date   string
	MeanMs float64
}

// GetSessionVolume returns sessions-per-day for the last N days.
func GetSessionVolume(days int) ([]SessionVolumePoint, error) {
	var points []SessionVolumePoint
	query := `
		SELECT to_char(started_at, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM screening_sessions
		WHERE started_at > NOW() - make_interval(days => ?)
		GROUP BY 1
		ORDER BY 1;`
	err := database.DB.Raw(query, days).Scan(&points).Error
	return points, err
}

// GetReactionTrend returns the mean reported reaction time per day, pulled
// from the raw telemetry payloads of reaction trials.
func GetReactionTrend(days int) ([]ReactionTrendPoint, error) {
	var points []ReactionTrendPoint
	query := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS date,
		       AVG((payload->>'reactionTime')::float) AS mean_ms
		FROM telemetry_events
		WHERE event_type = 'reaction-trial'
		  AND payload->>'reactionTime' IS NOT NULL
		  AND created_at > NOW() - make_interval(days => ?)
		GROUP BY 1
		ORDER BY 1;`
	err := database.DB.Raw(query, days).Scan(&points).Error
	return points, err
}
