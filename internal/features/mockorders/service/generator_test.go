package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ticket-mockgen/internal/features/mockorders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatorStore() *fakeStore {
	return &fakeStore{
		event: &domain.Event{ID: "evt-1", Status: "test", Title: "Load Test Event"},
		tiers: []domain.TicketTier{{ID: "A", PriceCents: 5000, TotalTickets: 100000}},
		fees: []domain.TicketingFee{
			{Name: "platform_fee", Type: domain.FeeTypePercentage, Value: 10, Active: true},
			{Name: domain.SalesTaxFeeName, Type: domain.FeeTypePercentage, Value: 8, Active: true},
		},
	}
}

// TestGenerator_HappyPath verifies a full run: users, orders, tickets, RSVPs
// and interests, all reported in the final result.
func TestGenerator_HappyPath(t *testing.T) {
	store := generatorStore()
	generator := NewGenerator(store, "development", 10)

	cfg := testConfig(20)
	cfg.RegisteredUserRatio = 50
	cfg.GenerateRSVPs = true
	cfg.RSVPRatio = 50
	cfg.GenerateInterests = true
	cfg.InterestRatio = 20

	var snapshots []domain.ProgressSnapshot
	result, err := generator.Generate(context.Background(), "run-1", cfg, func(s domain.ProgressSnapshot) {
		snapshots = append(snapshots, s)
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 10, result.Counts.Users)
	assert.Equal(t, 20, result.Counts.Orders)
	assert.Equal(t, 10, result.Counts.Guests)
	assert.Equal(t, 5, result.Counts.RSVPs)
	assert.Equal(t, 2, result.Counts.Interests)
	assert.Greater(t, result.Counts.Tickets, 0)
	assert.Len(t, result.OrderIDs, 20)
	assert.GreaterOrEqual(t, result.DurationMillis, int64(0))

	require.NotEmpty(t, snapshots)
	assert.Equal(t, domain.PhaseInitializing, snapshots[0].Phase)
	final := snapshots[len(snapshots)-1]
	assert.Equal(t, domain.PhaseComplete, final.Phase)
	assert.True(t, final.Complete)
	assert.InDelta(t, 100, final.OverallProgress, 0.001)
}

// TestGenerator_PhaseOrdering verifies phases only move forward through the
// emitted snapshots.
func TestGenerator_PhaseOrdering(t *testing.T) {
	store := generatorStore()
	generator := NewGenerator(store, "development", 5)

	cfg := testConfig(10)
	cfg.GenerateRSVPs = true
	cfg.RSVPRatio = 100
	cfg.RegisteredUserRatio = 100

	order := map[domain.GenerationPhase]int{
		domain.PhaseInitializing:   0,
		domain.PhaseCreatingUsers:  1,
		domain.PhaseCreatingOrders: 2,
		domain.PhaseCreatingRSVPs:  3,
		domain.PhaseFinalizing:     4,
		domain.PhaseComplete:       5,
	}

	last := -1
	_, err := generator.Generate(context.Background(), "run-1", cfg, func(s domain.ProgressSnapshot) {
		rank, ok := order[s.Phase]
		require.True(t, ok, "unexpected phase %s", s.Phase)
		assert.GreaterOrEqual(t, rank, last)
		last = rank
	})
	require.NoError(t, err)
	assert.Equal(t, order[domain.PhaseComplete], last)
}

// TestGenerator_ValidationFailures verifies each fatal validation path ends
// in the error phase with a failed result.
func TestGenerator_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeStore
		mutate  func(*domain.MockOrderConfig)
		wantErr error
	}{
		{
			name:    "EventMissing",
			store:   &fakeStore{},
			wantErr: ErrEventNotFound,
		},
		{
			name: "EventNotTest",
			store: func() *fakeStore {
				s := generatorStore()
				s.event.Status = "published"
				return s
			}(),
			wantErr: ErrEventNotTest,
		},
		{
			name: "NoTiers",
			store: func() *fakeStore {
				s := generatorStore()
				s.tiers = nil
				return s
			}(),
			wantErr: ErrNoTiers,
		},
		{
			name:  "UnknownTier",
			store: generatorStore(),
			mutate: func(c *domain.MockOrderConfig) {
				c.TierSelections[0].TierID = "ghost"
			},
			wantErr: ErrUnknownTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewGenerator(tt.store, "development", 10)
			cfg := testConfig(5)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			var final domain.ProgressSnapshot
			result, err := generator.Generate(context.Background(), "run-1", cfg, func(s domain.ProgressSnapshot) {
				final = s
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, result)
			assert.False(t, result.Success)
			require.Len(t, result.Errors, 1)

			assert.Equal(t, domain.PhaseError, final.Phase)
			assert.True(t, final.Complete)
			assert.NotEmpty(t, final.Error)
		})
	}
}

// TestGenerator_InvalidConfig verifies structural validation runs before any
// store access.
func TestGenerator_InvalidConfig(t *testing.T) {
	store := generatorStore()
	generator := NewGenerator(store, "development", 10)

	cfg := testConfig(5)
	cfg.RegisteredUserRatio = 150

	result, err := generator.Generate(context.Background(), "run-1", cfg, nil)

	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, store.profiles)
	assert.Empty(t, store.orders)
}

// TestGenerator_PartialFailure verifies per-record failures surface in the
// error list without stopping the run: partial success is a first-class
// outcome.
func TestGenerator_PartialFailure(t *testing.T) {
	store := generatorStore()
	store.itemsErr = func(n int) error {
		if n == 3 {
			return errors.New("item insert failed")
		}
		return nil
	}
	generator := NewGenerator(store, "development", 10)

	result, err := generator.Generate(context.Background(), "run-1", testConfig(20), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 20, result.Counts.Orders)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to create order items")
}

// TestGenerator_CapacityExhaustion verifies an exhausted run stays successful
// and reports fewer orders than requested.
func TestGenerator_CapacityExhaustion(t *testing.T) {
	store := generatorStore()
	store.tiers = []domain.TicketTier{{ID: "A", PriceCents: 5000, TotalTickets: 6}}
	generator := NewGenerator(store, "development", 10)

	cfg := testConfig(100)
	cfg.TierSelections = []domain.TierSelection{
		{TierID: "A", MinQuantity: 2, MaxQuantity: 2, Weight: 1},
	}

	var final domain.ProgressSnapshot
	result, err := generator.Generate(context.Background(), "run-1", cfg, func(s domain.ProgressSnapshot) {
		final = s
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Counts.Orders)

	found := false
	for _, line := range final.Log {
		if line == "capacity exhausted after 3 of 100 orders" {
			found = true
		}
	}
	assert.True(t, found, "expected capacity exhaustion log entry")
}

// TestGenerator_ZeroOrders verifies an empty run completes cleanly.
func TestGenerator_ZeroOrders(t *testing.T) {
	store := generatorStore()
	generator := NewGenerator(store, "development", 10)

	result, err := generator.Generate(context.Background(), "run-1", testConfig(0), nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, result.Counts.Orders)
	assert.Empty(t, result.OrderIDs)
}

// TestGenerator_UserFailureNonFatal verifies a failed profile insert is an
// error in the result but does not stop the run.
func TestGenerator_UserFailureNonFatal(t *testing.T) {
	store := generatorStore()
	store.profileErr = func(n int) error {
		if n == 0 {
			return errors.New("profile insert failed")
		}
		return nil
	}
	generator := NewGenerator(store, "development", 10)

	cfg := testConfig(10)
	cfg.RegisteredUserRatio = 50

	result, err := generator.Generate(context.Background(), "run-1", cfg, nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 4, result.Counts.Users)
	assert.Equal(t, 10, result.Counts.Orders)
}

// TestGenerator_ConcurrentRuns verifies one Generator can serve overlapping
// runs: every run owns its own randomizer, allocator and progress, so nothing
// is shared across the goroutines the HTTP layer spawns.
func TestGenerator_ConcurrentRuns(t *testing.T) {
	store := generatorStore()
	generator := NewGenerator(store, "development", 10)

	const workers = 4
	const runsPerWorker = 20

	var wg sync.WaitGroup
	failures := make(chan string, workers*runsPerWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < runsPerWorker; n++ {
				runID := fmt.Sprintf("run-%d-%d", w, n)
				result, err := generator.Generate(context.Background(), runID, testConfig(5), nil)
				if err != nil {
					failures <- fmt.Sprintf("%s: %v", runID, err)
					continue
				}
				if !result.Success || result.Counts.Orders != 5 {
					failures <- fmt.Sprintf("%s: success=%v orders=%d", runID, result.Success, result.Counts.Orders)
				}
			}
		}(w)
	}
	wg.Wait()
	close(failures)

	for failure := range failures {
		t.Error(failure)
	}
	assert.Len(t, store.orders, workers*runsPerWorker*5)
}

// TestGenerator_RSVPsCappedAtEventCapacity verifies the RSVP step never
// exceeds the event's configured RSVP capacity.
func TestGenerator_RSVPsCappedAtEventCapacity(t *testing.T) {
	store := generatorStore()
	store.event.RSVPCapacity = 3
	generator := NewGenerator(store, "development", 10)

	cfg := testConfig(10)
	cfg.RegisteredUserRatio = 100
	cfg.GenerateRSVPs = true
	cfg.RSVPRatio = 100

	result, err := generator.Generate(context.Background(), "run-1", cfg, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 10, result.Counts.Users)
	assert.Equal(t, 3, result.Counts.RSVPs)
	assert.Len(t, store.rsvps, 3)
}

// TestGenerator_DeleteByEvent verifies the atomic cleanup passthrough.
func TestGenerator_DeleteByEvent(t *testing.T) {
	store := generatorStore()
	store.deleteCounts = &domain.DeletionCounts{Orders: 12, Tickets: 30, Guests: 4, TestProfiles: 8}
	generator := NewGenerator(store, "development", 10)

	result := generator.DeleteByEvent(context.Background(), "evt-1")

	assert.True(t, result.Success)
	assert.Equal(t, "evt-1", store.deletedEvent)
	assert.Equal(t, 12, result.Counts.Orders)
	assert.Equal(t, 30, result.Counts.Tickets)
}

// TestGenerator_DeleteByEvent_Error verifies a failed deletion reports zero
// counts.
func TestGenerator_DeleteByEvent_Error(t *testing.T) {
	store := generatorStore()
	store.deleteErr = errors.New("transaction aborted")
	generator := NewGenerator(store, "development", 10)

	result := generator.DeleteByEvent(context.Background(), "evt-1")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "transaction aborted")
	assert.Equal(t, domain.DeletionCounts{}, result.Counts)
}
