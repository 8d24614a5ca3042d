package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ticket-mockgen/internal/core/cache"
	"ticket-mockgen/internal/features/mockorders/domain"
)

// progressTTL keeps finished runs readable for a while before they expire.
const progressTTL = time.Hour

// CacheProgressSink stores generation progress snapshots in the cache so the
// admin UI can poll a run's state without holding the generation call.
type CacheProgressSink struct {
	cache cache.Cache
}

// NewCacheProgressSink creates a CacheProgressSink over the cache port.
func NewCacheProgressSink(c cache.Cache) *CacheProgressSink {
	return &CacheProgressSink{cache: c}
}

// progressKey builds the cache key of a run's snapshot.
func progressKey(runID string) string {
	return "mockgen:progress:" + runID
}

// Publish stores the latest snapshot for its run.
func (s *CacheProgressSink) Publish(ctx context.Context, snapshot domain.ProgressSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal progress snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, progressKey(snapshot.RunID), data, progressTTL); err != nil {
		return fmt.Errorf("failed to store progress snapshot: %w", err)
	}
	return nil
}

// Fetch returns the latest snapshot stored for a run, or nil when the run is
// unknown or expired.
func (s *CacheProgressSink) Fetch(ctx context.Context, runID string) (*domain.ProgressSnapshot, error) {
	data, err := s.cache.Get(ctx, progressKey(runID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read progress snapshot: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var snapshot domain.ProgressSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress snapshot: %w", err)
	}
	return &snapshot, nil
}
