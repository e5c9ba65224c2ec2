package memory

import (
	"context"
	"fmt"
	"time"

	"Aria_AI/internal/config"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

// Janitor periodically trims each user's fact list to the configured
// cap, deleting oldest non-core facts first.
type Janitor struct {
	facts    FactDAL
	maxFacts int
	interval time.Duration
	log      *logger.Logger
}

// NewJanitor creates a Janitor. A zero cleanup interval disables it.
func NewJanitor(facts FactDAL, cfg *config.MemoryConfig, log *logger.Logger) *Janitor {
	return &Janitor{
		facts:    facts,
		maxFacts: cfg.MaxFacts,
		interval: time.Duration(cfg.CleanupInterval) * time.Minute,
		log:      log,
	}
}

// Start launches the cleanup loop in a goroutine. The loop exits when
// ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	if j.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.runOnce(ctx)
			}
		}
	}()
}

func (j *Janitor) runOnce(ctx context.Context) {
	userIDs, err := j.facts.UserIDs(ctx)
	if err != nil {
		j.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("cleanup: failed to list fact owners")
		return
	}

	var total int64
	for _, userID := range userIDs {
		deleted, err := j.facts.TrimToLimit(ctx, userID, j.maxFacts)
		if err != nil {
			j.log.WithError(models.ErrorInfo{Message: err.Error()}).Error(fmt.Sprintf("cleanup: failed to trim facts for user %s", userID))
			continue
		}
		total += deleted
	}
	if total > 0 {
		j.log.WithPayload(map[string]interface{}{"deleted": total}).Info("cleanup pass removed overflow facts")
	}
}
