package ports

import (
	"context"

	"ticket-mockgen/internal/features/mockorders/domain"
)

// ProgressFunc receives a full progress snapshot after every state change of a
// generation run. Invocations are synchronous and unbatched; consumers must
// not assume any debouncing.
type ProgressFunc func(snapshot domain.ProgressSnapshot)

// ProgressSink stores progress snapshots so they can be read back outside the
// generation call, e.g. by a polling UI. This is a Secondary Port.
type ProgressSink interface {
	// Publish stores the latest snapshot for its run.
	Publish(ctx context.Context, snapshot domain.ProgressSnapshot) error

	// Fetch returns the latest snapshot stored for a run, or nil when the run
	// is unknown or its snapshot expired.
	Fetch(ctx context.Context, runID string) (*domain.ProgressSnapshot, error)
}
