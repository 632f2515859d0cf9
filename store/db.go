package store

import (
	"time"

	"github.com/azatkg/lounge/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// GetTimers returns every persisted station timer.
	GetTimers() ([]*models.Timer, error)
	// UpdateTimer upserts a station timer keyed by its id.
	UpdateTimer(t *models.Timer) error
	// AppendActivity writes an activity log entry. Only the most recent
	// entries are retained; older ones are pruned on write.
	AppendActivity(entry *models.ActivityEntry) error
	// RecentActivity returns up to limit entries, newest first.
	RecentActivity(limit int) ([]*models.ActivityEntry, error)
	// GetDailyStat returns the aggregate row for a day key, or an empty
	// row if none exists yet.
	GetDailyStat(key string) (*models.DailyStat, error)
	// UpdateDailyStat overwrites the aggregate row for its day key.
	UpdateDailyStat(stat *models.DailyStat) error
	// GetDailyStats returns the aggregate rows whose day falls within the
	// specified bounds (inclusive).
	GetDailyStats(start, end time.Time) ([]*models.DailyStat, error)
	// Close ends the database connection
	Close() error
	// Open begins a database connection
	Open() error
}
