package domain

// ProgressLogCap bounds the rolling log carried in progress snapshots.
const ProgressLogCap = 50

// GenerationPhase is one stage of the generation state machine. Phases only
// move forward; error is a terminal state reachable from any phase.
type GenerationPhase string

const (
	// PhaseInitializing covers validation and reference-data loading.
	PhaseInitializing GenerationPhase = "initializing"
	// PhaseCreatingUsers covers test-profile creation.
	PhaseCreatingUsers GenerationPhase = "creating_users"
	// PhaseCreatingOrders covers order preparation and batched writes.
	PhaseCreatingOrders GenerationPhase = "creating_orders"
	// PhaseCreatingRSVPs covers optional RSVP generation.
	PhaseCreatingRSVPs GenerationPhase = "creating_rsvps"
	// PhaseCreatingInterests covers optional interest generation.
	PhaseCreatingInterests GenerationPhase = "creating_interests"
	// PhaseFinalizing covers summary assembly.
	PhaseFinalizing GenerationPhase = "finalizing"
	// PhaseComplete is the successful terminal phase.
	PhaseComplete GenerationPhase = "complete"
	// PhaseError is the failed terminal phase.
	PhaseError GenerationPhase = "error"
)

// StepStatus is the lifecycle of one generation step.
type StepStatus string

const (
	// StepPending means the step has not started.
	StepPending StepStatus = "pending"
	// StepInProgress means the step is the one currently advancing.
	StepInProgress StepStatus = "in_progress"
	// StepCompleted means the step finished.
	StepCompleted StepStatus = "completed"
	// StepError means the step hit a fatal error.
	StepError StepStatus = "error"
)

// GenerationStep tracks one unit of the step list shown to the consumer.
type GenerationStep struct {
	// Phase names the phase this step belongs to.
	Phase GenerationPhase `json:"phase"`
	// Label is the human-readable description of the step.
	Label string `json:"label"`
	// Current is the number of completed work units within the step.
	Current int `json:"current"`
	// Total is the number of work units the step will process. Zero means the
	// total is not yet known.
	Total int `json:"total"`
	// Status is the step's lifecycle status.
	Status StepStatus `json:"status"`
}

// GenerationCounts accumulates how many rows of each entity the run created.
type GenerationCounts struct {
	// Users is the number of test profiles created.
	Users int `json:"users"`
	// Orders is the number of order rows created.
	Orders int `json:"orders"`
	// Tickets is the number of ticket rows created.
	Tickets int `json:"tickets"`
	// Guests is the number of guest rows created.
	Guests int `json:"guests"`
	// RSVPs is the number of RSVP rows created.
	RSVPs int `json:"rsvps"`
	// Interests is the number of interest rows created.
	Interests int `json:"interests"`
}

// ProgressSnapshot is the immutable view handed to progress consumers. Every
// emission carries a full, deep copy, so a retained snapshot never observes a
// later mutation of the run's live state.
type ProgressSnapshot struct {
	// RunID identifies the generation run.
	RunID string `json:"run_id"`
	// Phase is the current phase of the state machine.
	Phase GenerationPhase `json:"phase"`
	// Steps is the ordered step list with counters and statuses.
	Steps []GenerationStep `json:"steps"`
	// Counts are the cumulative created-entity counts.
	Counts GenerationCounts `json:"counts"`
	// OverallProgress is the run-level completion percentage, clamped to 100.
	OverallProgress float64 `json:"overall_progress"`
	// Log is the capped rolling log, oldest first.
	Log []string `json:"log"`
	// Complete is true once the run reached a terminal phase.
	Complete bool `json:"complete"`
	// Error carries the fatal error message when the run failed.
	Error string `json:"error,omitempty"`
}

// GenerationProgress is the live, mutable progress state of one run. It is
// owned by a single generation call; consumers only ever see snapshots.
type GenerationProgress struct {
	// RunID identifies the generation run.
	RunID string
	// Phase is the current phase of the state machine.
	Phase GenerationPhase
	// Steps is the ordered step list.
	Steps []GenerationStep
	// Counts are the cumulative created-entity counts.
	Counts GenerationCounts
	// Complete is true once the run reached a terminal phase.
	Complete bool
	// Error carries the fatal error message when the run failed.
	Error string

	log []string
}

// NewGenerationProgress builds the initial progress state with every step
// pending and the phase at initializing.
func NewGenerationProgress(runID string, steps []GenerationStep) *GenerationProgress {
	return &GenerationProgress{
		RunID: runID,
		Phase: PhaseInitializing,
		Steps: steps,
	}
}

// AppendLog records a log line, evicting the oldest entries beyond the cap.
func (p *GenerationProgress) AppendLog(line string) {
	p.log = append(p.log, line)
	if len(p.log) > ProgressLogCap {
		p.log = p.log[len(p.log)-ProgressLogCap:]
	}
}

// Step returns the step for a phase, or nil when the phase has no step.
func (p *GenerationProgress) Step(phase GenerationPhase) *GenerationStep {
	for i := range p.Steps {
		if p.Steps[i].Phase == phase {
			return &p.Steps[i]
		}
	}
	return nil
}

// EnterPhase advances the state machine, marking the phase's step in progress.
func (p *GenerationProgress) EnterPhase(phase GenerationPhase) {
	p.Phase = phase
	if step := p.Step(phase); step != nil {
		step.Status = StepInProgress
	}
}

// CompletePhase marks the phase's step completed with its counter saturated.
func (p *GenerationProgress) CompletePhase(phase GenerationPhase) {
	if step := p.Step(phase); step != nil {
		step.Status = StepCompleted
		if step.Total > 0 {
			step.Current = step.Total
		}
	}
}

// Fail moves the run to the terminal error phase and records the message.
func (p *GenerationProgress) Fail(message string) {
	if step := p.Step(p.Phase); step != nil && step.Status == StepInProgress {
		step.Status = StepError
	}
	p.Phase = PhaseError
	p.Error = message
	p.Complete = true
}

// Finish moves the run to the terminal complete phase.
func (p *GenerationProgress) Finish() {
	p.Phase = PhaseComplete
	p.Complete = true
}

// OverallProgress computes the run-level percentage: completed steps count
// fully, the in-flight step counts by its fractional counter.
func (p *GenerationProgress) OverallProgress() float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	done := 0.0
	for _, step := range p.Steps {
		switch step.Status {
		case StepCompleted:
			done++
		case StepInProgress:
			if step.Total > 0 {
				done += float64(step.Current) / float64(step.Total)
			}
		}
	}
	pct := done / float64(len(p.Steps)) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Snapshot produces the immutable copy emitted to progress consumers.
func (p *GenerationProgress) Snapshot() ProgressSnapshot {
	steps := make([]GenerationStep, len(p.Steps))
	copy(steps, p.Steps)
	log := make([]string, len(p.log))
	copy(log, p.log)
	return ProgressSnapshot{
		RunID:           p.RunID,
		Phase:           p.Phase,
		Steps:           steps,
		Counts:          p.Counts,
		OverallProgress: p.OverallProgress(),
		Log:             log,
		Complete:        p.Complete,
		Error:           p.Error,
	}
}
