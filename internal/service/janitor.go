package service

import (
	"context"
	"time"

	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/model"
)

// Janitor sweeps expired refresh sessions and deny-list rows. Expired
// rows are rejected on read regardless; the sweep only reclaims space.
type Janitor struct {
	sessions    model.RefreshSessionStore
	revocations model.RevocationStore
	interval    time.Duration
	logger      *logger.Logger
}

func NewJanitor(sessions model.RefreshSessionStore, revocations model.RevocationStore, interval time.Duration, logger *logger.Logger) *Janitor {
	return &Janitor{sessions: sessions, revocations: revocations, interval: interval, logger: logger}
}

// Run sweeps on every tick until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep deletes rows past their expiry from both stores.
func (j *Janitor) Sweep(ctx context.Context) {
	now := time.Now()

	sessions, err := j.sessions.DeleteExpired(ctx, now)
	if err != nil {
		j.logger.Error("failed to sweep refresh sessions", "error", err.Error())
	}

	revocations, err := j.revocations.DeleteExpired(ctx, now)
	if err != nil {
		j.logger.Error("failed to sweep revoked tokens", "error", err.Error())
	}

	if sessions > 0 || revocations > 0 {
		j.logger.Info("janitor sweep completed",
			"sessions_deleted", sessions,
			"revocations_deleted", revocations)
	}
}
