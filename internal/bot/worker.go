package bot

import (
	"context"
	"time"
)

// RunCleanupWorker periodically prunes activity-log entries older than
// retentionDays. Best-effort: failures are logged and the next tick
// tries again.
func (h *Handler) RunCleanupWorker(ctx context.Context, every time.Duration, retentionDays int) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := h.activity.DeleteOlderThan(ctx, retentionDays)
			if err != nil {
				h.log.Error().Err(err).Msg("activity cleanup")
				continue
			}
			if removed > 0 {
				h.log.Info().Int64("removed", removed).Msg("activity cleanup")
			}
		}
	}
}
