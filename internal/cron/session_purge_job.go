package cron

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/logger"
)

// Purger is a session store that can drop expired entries in bulk.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionPurgeJob struct {
	logg  *logger.Logger
	store Purger
}

// NewSessionPurgeJob removes expired session items. Stores with native
// expiry (Redis) do not need it.
func NewSessionPurgeJob(logg *logger.Logger, store Purger) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("purgeable store required")
	}
	return &sessionPurgeJob{logg: logg, store: store}, nil
}

func (j *sessionPurgeJob) Name() string { return "session-purge" }

func (j *sessionPurgeJob) Run(ctx context.Context) error {
	deleted, err := j.store.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("session purge: %w", err)
	}
	if deleted > 0 {
		j.logg.Info(j.logg.WithField(ctx, "items_deleted", deleted), "expired session items purged")
	}
	return nil
}
