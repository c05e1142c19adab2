package workers

import (
	"context"
	"time"

	"chatline_backend/internal/logger"

	"gorm.io/gorm"
)

// PresenceWorker sweeps stale online flags. After an unclean shutdown
// users can stay marked online with no live socket; anyone whose
// last_seen has not moved for the threshold is flipped back offline.
type PresenceWorker struct {
	db        *gorm.DB
	interval  time.Duration
	staleness time.Duration
}

func NewPresenceWorker(db *gorm.DB) *PresenceWorker {
	return &PresenceWorker{
		db:        db,
		interval:  5 * time.Minute,
		staleness: 15 * time.Minute,
	}
}

// Start clears every online flag left over from the previous process and
// then sweeps periodically. It runs before the server accepts
// connections, so a boot-time reset cannot race a live socket.
func (w *PresenceWorker) Start(ctx context.Context) {
	result := w.db.Exec(`UPDATE users SET is_online = false WHERE is_online = true`)
	if result.Error != nil {
		logger.WithError(result.Error).Error("presence reset failed")
	} else if result.RowsAffected > 0 {
		logger.Info("reset presence flags from previous run", "count", result.RowsAffected)
	}

	go w.sweep(ctx)
}

func (w *PresenceWorker) sweep(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("presence worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-w.staleness)
			result := w.db.Exec(
				`UPDATE users SET is_online = false WHERE is_online = true AND last_seen < ?`,
				cutoff,
			)
			if result.Error != nil {
				logger.WithError(result.Error).Error("presence sweep failed")
			} else if result.RowsAffected > 0 {
				logger.Info("cleared stale presence flags", "count", result.RowsAffected)
			}
		}
	}
}
