package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-mockgen/internal/core/logger"
	"ticket-mockgen/internal/core/metrics"
	"ticket-mockgen/internal/features/mockorders/domain"
	"ticket-mockgen/internal/features/mockorders/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEventNotFound is returned when the target event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrEventNotTest is returned when the target event is not in test status.
var ErrEventNotTest = errors.New("event is not in test status")

// ErrNoTiers is returned when the target event has no ticket tiers.
var ErrNoTiers = errors.New("no ticket tiers found for event")

// ErrUnknownTier is returned when a tier selection references a tier the
// event does not have.
var ErrUnknownTier = errors.New("tier selection references unknown tier")

// DefaultBatchSize is the number of prepared orders persisted per batch when
// the configuration does not say otherwise.
const DefaultBatchSize = 10

// eventStatusTest is the only event lifecycle status generation may target.
const eventStatusTest = "test"

var rsvpStatuses = []domain.RSVPStatus{
	domain.RSVPStatusGoing,
	domain.RSVPStatusMaybe,
	domain.RSVPStatusNotGoing,
}

// rsvpWeights biases generated RSVPs toward affirmative responses.
var rsvpWeights = []int{70, 20, 10}

// Generator orchestrates one mock-order generation run end to end:
// validation, test users, prepared orders, batched writes, optional RSVPs and
// interests, and the final summary. A Generator is safe for concurrent runs:
// every mutable piece of a run (randomizer, capacity map, progress) is created
// inside Generate and owned by that call alone.
type Generator struct {
	store          ports.Store
	batchSize      int
	feeEnvironment string
}

// NewGenerator creates a Generator over the store port. A non-positive batch
// size falls back to DefaultBatchSize.
func NewGenerator(store ports.Store, feeEnvironment string, batchSize int) *Generator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Generator{
		store:          store,
		batchSize:      batchSize,
		feeEnvironment: feeEnvironment,
	}
}

// Generate runs one generation. onProgress, when non-nil, receives a full
// snapshot synchronously after every state change. Validation failures return
// a result with Success=false alongside the error; per-record write failures
// and capacity exhaustion only surface in the result's error list and do not
// stop the run.
func (g *Generator) Generate(ctx context.Context, runID string, cfg *domain.MockOrderConfig, onProgress ports.ProgressFunc) (*domain.GenerationResult, error) {
	start := time.Now()
	if runID == "" {
		runID = uuid.NewString()
	}

	// Run-local source: concurrent runs must never contend on shared draws.
	rnd := domain.NewRandomizer()
	registered := cfg.TotalOrders * cfg.RegisteredUserRatio / 100
	progress := domain.NewGenerationProgress(runID, buildSteps(cfg, registered))
	emit := func() {
		if onProgress != nil {
			onProgress(progress.Snapshot())
		}
	}
	fail := func(err error) (*domain.GenerationResult, error) {
		logger.Get().Error("Mock order generation failed",
			zap.String("run_id", runID),
			zap.String("event_id", cfg.EventID),
			zap.Error(err),
		)
		progress.AppendLog("generation failed: " + err.Error())
		progress.Fail(err.Error())
		emit()
		metrics.GenerationRuns.WithLabelValues("error").Inc()
		return &domain.GenerationResult{
			Success:        false,
			OrderIDs:       []string{},
			Errors:         []string{err.Error()},
			DurationMillis: time.Since(start).Milliseconds(),
		}, err
	}

	progress.EnterPhase(domain.PhaseInitializing)
	emit()

	if err := cfg.Validate(); err != nil {
		return fail(fmt.Errorf("invalid config: %w", err))
	}
	event, err := g.store.GetEvent(ctx, cfg.EventID)
	if err != nil {
		return fail(fmt.Errorf("failed to load event: %w", err))
	}
	if event == nil {
		return fail(fmt.Errorf("%w: %s", ErrEventNotFound, cfg.EventID))
	}
	if event.Status != eventStatusTest {
		return fail(fmt.Errorf("%w: status is %q", ErrEventNotTest, event.Status))
	}
	tiers, err := g.store.ListTiers(ctx, cfg.EventID)
	if err != nil {
		return fail(fmt.Errorf("failed to load ticket tiers: %w", err))
	}
	if len(tiers) == 0 {
		return fail(fmt.Errorf("%w: %s", ErrNoTiers, cfg.EventID))
	}
	knownTiers := make(map[string]bool, len(tiers))
	for _, tier := range tiers {
		knownTiers[tier.ID] = true
	}
	for _, sel := range cfg.TierSelections {
		if !knownTiers[sel.TierID] {
			return fail(fmt.Errorf("%w: %s", ErrUnknownTier, sel.TierID))
		}
	}
	fees, err := g.store.ListActiveFees(ctx, g.feeEnvironment)
	if err != nil {
		return fail(fmt.Errorf("failed to load fees: %w", err))
	}
	progress.AppendLog(fmt.Sprintf("validation passed for event %q", event.Title))
	progress.CompletePhase(domain.PhaseInitializing)
	emit()

	var errs []string

	// Test profiles back the registered prefix of the order list.
	progress.EnterPhase(domain.PhaseCreatingUsers)
	emit()
	users := make([]CreatedUser, 0, registered)
	for n := 0; n < registered; n++ {
		name, email := syntheticIdentity(runID, n)
		id, err := g.store.InsertTestProfile(ctx, domain.TestProfile{Email: email, DisplayName: name})
		if err != nil {
			errs = append(errs, fmt.Sprintf("user %d: failed to create test profile: %v", n, err))
			continue
		}
		users = append(users, CreatedUser{ID: id, Email: email, DisplayName: name})
		progress.Counts.Users++
		progress.Step(domain.PhaseCreatingUsers).Current++
		metrics.EntitiesGenerated.WithLabelValues("user").Inc()
		emit()
	}
	progress.AppendLog(fmt.Sprintf("%d test profiles created", len(users)))
	progress.CompletePhase(domain.PhaseCreatingUsers)
	emit()

	progress.EnterPhase(domain.PhaseCreatingOrders)
	emit()
	prepared, exhausted := NewOrderPreparer(rnd).Prepare(runID, cfg, users, tiers, fees)
	if exhausted {
		logger.Get().Warn("Tier capacity exhausted before all orders were generated",
			zap.String("run_id", runID),
			zap.Int("prepared", len(prepared)),
			zap.Int("requested", cfg.TotalOrders),
		)
		progress.AppendLog(fmt.Sprintf("capacity exhausted after %d of %d orders", len(prepared), cfg.TotalOrders))
		// The orders step shrinks to what capacity allowed.
		progress.Step(domain.PhaseCreatingOrders).Total = len(prepared)
	}

	executor := NewBatchExecutor(g.store)
	batches := domain.BatchResult{OrderIDs: []string{}, Errors: []string{}}
	for b := 0; b*g.batchSize < len(prepared); b++ {
		lo := b * g.batchSize
		hi := min(lo+g.batchSize, len(prepared))
		res := executor.Execute(ctx, prepared[lo:hi], cfg)
		batches.Merge(res)

		progress.Counts.Orders = batches.OrdersCreated
		progress.Counts.Tickets = batches.TicketsCreated
		progress.Counts.Guests = batches.GuestsCreated
		progress.Step(domain.PhaseCreatingOrders).Current += hi - lo
		if len(res.Errors) > 0 {
			progress.AppendLog(fmt.Sprintf("batch %d encountered %d errors", b+1, len(res.Errors)))
		}
		metrics.EntitiesGenerated.WithLabelValues("order").Add(float64(res.OrdersCreated))
		metrics.EntitiesGenerated.WithLabelValues("ticket").Add(float64(res.TicketsCreated))
		metrics.EntitiesGenerated.WithLabelValues("guest").Add(float64(res.GuestsCreated))
		emit()
	}
	errs = append(errs, batches.Errors...)
	progress.AppendLog(fmt.Sprintf("%d orders created", batches.OrdersCreated))
	progress.CompletePhase(domain.PhaseCreatingOrders)
	emit()

	if cfg.GenerateRSVPs {
		errs = append(errs, g.generateRSVPs(ctx, cfg, rnd, event, users, progress, emit)...)
	}
	if cfg.GenerateInterests {
		errs = append(errs, g.generateInterests(ctx, cfg, users, progress, emit)...)
	}

	progress.EnterPhase(domain.PhaseFinalizing)
	emit()
	result := &domain.GenerationResult{
		Success:        len(errs) == 0,
		Counts:         progress.Counts,
		OrderIDs:       batches.OrderIDs,
		Errors:         errs,
		DurationMillis: time.Since(start).Milliseconds(),
	}
	progress.AppendLog(fmt.Sprintf("generation finished: %d orders, %d tickets in %dms",
		result.Counts.Orders, result.Counts.Tickets, result.DurationMillis))
	progress.CompletePhase(domain.PhaseFinalizing)
	progress.Finish()
	emit()

	outcome := "success"
	if !result.Success {
		outcome = "partial"
	}
	metrics.GenerationRuns.WithLabelValues(outcome).Inc()
	logger.Get().Info("Mock order generation finished",
		zap.String("run_id", runID),
		zap.String("event_id", cfg.EventID),
		zap.Int("orders", result.Counts.Orders),
		zap.Int("tickets", result.Counts.Tickets),
		zap.Int("errors", len(result.Errors)),
		zap.Int64("duration_ms", result.DurationMillis),
	)
	return result, nil
}

// generateRSVPs creates RSVPs for a deterministic prefix of the created
// users. The step total is only known now, once the user count is, and never
// exceeds the event's configured RSVP capacity.
func (g *Generator) generateRSVPs(ctx context.Context, cfg *domain.MockOrderConfig, rnd *domain.Randomizer, event *domain.Event, users []CreatedUser, progress *domain.GenerationProgress, emit func()) []string {
	progress.EnterPhase(domain.PhaseCreatingRSVPs)
	step := progress.Step(domain.PhaseCreatingRSVPs)
	step.Total = len(users) * cfg.RSVPRatio / 100
	if event.RSVPCapacity > 0 && step.Total > event.RSVPCapacity {
		progress.AppendLog(fmt.Sprintf("rsvps capped at event capacity %d", event.RSVPCapacity))
		step.Total = event.RSVPCapacity
	}
	emit()

	var errs []string
	for n := 0; n < step.Total; n++ {
		status := rsvpStatuses[rnd.WeightedIndex(rsvpWeights)]
		err := g.store.InsertRSVP(ctx, domain.RSVPRecord{
			EventID: cfg.EventID,
			UserID:  users[n].ID,
			Status:  status,
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("rsvp %d: %v", n, err))
			continue
		}
		progress.Counts.RSVPs++
		step.Current++
		metrics.EntitiesGenerated.WithLabelValues("rsvp").Inc()
		emit()
	}
	progress.AppendLog(fmt.Sprintf("%d rsvps created", progress.Counts.RSVPs))
	progress.CompletePhase(domain.PhaseCreatingRSVPs)
	emit()
	return errs
}

// generateInterests mirrors generateRSVPs for interest records.
func (g *Generator) generateInterests(ctx context.Context, cfg *domain.MockOrderConfig, users []CreatedUser, progress *domain.GenerationProgress, emit func()) []string {
	progress.EnterPhase(domain.PhaseCreatingInterests)
	step := progress.Step(domain.PhaseCreatingInterests)
	step.Total = len(users) * cfg.InterestRatio / 100
	emit()

	var errs []string
	for n := 0; n < step.Total; n++ {
		err := g.store.InsertInterest(ctx, domain.InterestRecord{
			EventID: cfg.EventID,
			UserID:  users[n].ID,
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("interest %d: %v", n, err))
			continue
		}
		progress.Counts.Interests++
		step.Current++
		metrics.EntitiesGenerated.WithLabelValues("interest").Inc()
		emit()
	}
	progress.AppendLog(fmt.Sprintf("%d interests created", progress.Counts.Interests))
	progress.CompletePhase(domain.PhaseCreatingInterests)
	emit()
	return errs
}

// DeleteByEvent removes every generated row for an event through the store's
// atomic cleanup. Counts are all zero when the deletion fails.
func (g *Generator) DeleteByEvent(ctx context.Context, eventID string) *domain.DeletionResult {
	counts, err := g.store.DeleteEventTestData(ctx, eventID)
	if err != nil {
		logger.Get().Error("Failed to delete generated test data",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		metrics.DeletionRuns.WithLabelValues("error").Inc()
		return &domain.DeletionResult{Success: false, Error: err.Error()}
	}
	metrics.DeletionRuns.WithLabelValues("success").Inc()
	return &domain.DeletionResult{Success: true, Counts: *counts}
}

// buildSteps assembles the ordered step list for a run. RSVP and interest
// steps are present only when their phases are enabled; their totals are
// injected once the created-user count is known.
func buildSteps(cfg *domain.MockOrderConfig, registered int) []domain.GenerationStep {
	steps := []domain.GenerationStep{
		{Phase: domain.PhaseInitializing, Label: "Validating configuration", Total: 1, Status: domain.StepPending},
		{Phase: domain.PhaseCreatingUsers, Label: "Creating test users", Total: registered, Status: domain.StepPending},
		{Phase: domain.PhaseCreatingOrders, Label: "Creating orders", Total: cfg.TotalOrders, Status: domain.StepPending},
	}
	if cfg.GenerateRSVPs {
		steps = append(steps, domain.GenerationStep{Phase: domain.PhaseCreatingRSVPs, Label: "Creating RSVPs", Status: domain.StepPending})
	}
	if cfg.GenerateInterests {
		steps = append(steps, domain.GenerationStep{Phase: domain.PhaseCreatingInterests, Label: "Creating interests", Status: domain.StepPending})
	}
	steps = append(steps, domain.GenerationStep{Phase: domain.PhaseFinalizing, Label: "Finalizing", Total: 1, Status: domain.StepPending})
	return steps
}
