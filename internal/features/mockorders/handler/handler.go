package handler

import (
	"context"
	"errors"
	"net/http"

	"ticket-mockgen/internal/core/logger"
	"ticket-mockgen/internal/features/mockorders/domain"
	"ticket-mockgen/internal/features/mockorders/ports"
	"ticket-mockgen/internal/features/mockorders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockOrderHandler exposes the generation engine over HTTP for the admin UI.
type MockOrderHandler struct {
	// generator runs and deletes mock-order generations.
	generator *service.Generator
	// sink stores progress snapshots for polling.
	sink ports.ProgressSink
}

// NewMockOrderHandler creates a new MockOrderHandler.
func NewMockOrderHandler(g *service.Generator, sink ports.ProgressSink) *MockOrderHandler {
	return &MockOrderHandler{
		generator: g,
		sink:      sink,
	}
}

// StartResponse is returned when a generation run is accepted.
type StartResponse struct {
	// RunID identifies the started run for progress polling.
	RunID string `json:"run_id"`
}

// StartGeneration handles the request to start a mock-order generation run.
// @Summary Start mock-order generation
// @Description Validates the request and runs generation in the background. Poll the run endpoint for progress.
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param config body domain.MockOrderConfig true "Generation config"
// @Success 202 {object} StartResponse
// @Failure 400 {object} ErrorResponse
// @Router /events/{id}/mock-orders [post]
func (h *MockOrderHandler) StartGeneration(c *fiber.Ctx) error {
	rayID := rayID(c)
	eventID := c.Params("id")

	var cfg domain.MockOrderConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body: " + err.Error(),
			RayID:   rayID,
		})
	}
	cfg.EventID = eventID

	if err := cfg.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	runID := uuid.NewString()
	onProgress := func(snapshot domain.ProgressSnapshot) {
		if err := h.sink.Publish(context.Background(), snapshot); err != nil {
			logger.Get().Warn("Failed to publish progress snapshot",
				zap.String("run_id", snapshot.RunID),
				zap.Error(err),
			)
		}
	}

	// The run outlives the request; event-level validation errors surface
	// through the run's progress snapshots.
	go func() {
		if _, err := h.generator.Generate(context.Background(), runID, &cfg, onProgress); err != nil {
			logger.Get().Error("Generation run failed",
				zap.String("run_id", runID),
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
		}
	}()

	return c.Status(http.StatusAccepted).JSON(StartResponse{RunID: runID})
}

// GetProgress handles the request to poll a generation run's progress.
// @Summary Get generation run progress
// @Produce json
// @Param runID path string true "Run ID"
// @Success 200 {object} domain.ProgressSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /mock-orders/runs/{runID} [get]
func (h *MockOrderHandler) GetProgress(c *fiber.Ctx) error {
	rayID := rayID(c)
	runID := c.Params("runID")

	snapshot, err := h.sink.Fetch(c.Context(), runID)
	if err != nil {
		logger.Get().Error("Failed to fetch progress snapshot",
			zap.String("run_id", runID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}
	if snapshot == nil {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: "Run not found",
			RayID:   rayID,
		})
	}
	return c.Status(http.StatusOK).JSON(snapshot)
}

// DeleteTestData handles the request to remove all generated data for an event.
// @Summary Delete generated test data
// @Description Atomically removes every generated row for the event and reports per-entity counts.
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.DeletionResult
// @Failure 500 {object} domain.DeletionResult
// @Router /events/{id}/mock-orders [delete]
func (h *MockOrderHandler) DeleteTestData(c *fiber.Ctx) error {
	eventID := c.Params("id")

	result := h.generator.DeleteByEvent(c.Context(), eventID)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	return c.Status(status).JSON(result)
}

// RunSync executes a generation synchronously and returns the final result.
// Intended for scripted load seeding where polling is not wanted.
// @Summary Run mock-order generation synchronously
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param config body domain.MockOrderConfig true "Generation config"
// @Success 200 {object} domain.GenerationResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /events/{id}/mock-orders/sync [post]
func (h *MockOrderHandler) RunSync(c *fiber.Ctx) error {
	rayID := rayID(c)
	eventID := c.Params("id")

	var cfg domain.MockOrderConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body: " + err.Error(),
			RayID:   rayID,
		})
	}
	cfg.EventID = eventID

	result, err := h.generator.Generate(c.Context(), uuid.NewString(), &cfg, nil)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, service.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}
	return c.Status(http.StatusOK).JSON(result)
}

// rayID extracts the request id injected by the requestid middleware.
func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
