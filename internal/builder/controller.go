package builder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"promptsite/internal/models"
	"promptsite/internal/services"
	"promptsite/internal/validation"
	"promptsite/pkg/llm"
)

// State is the lifecycle phase of one generation cycle.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrGenerationInFlight is returned by Submit while a cycle is running.
var ErrGenerationInFlight = errors.New("a generation is already in progress")

// GenerationAPI runs one generation cycle against the gateway.
type GenerationAPI interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)
}

// CreditsAPI reports the remaining daily credits for display.
type CreditsAPI interface {
	Remaining(ctx context.Context) (int, error)
}

// Controller drives the store builder through one generation cycle at a
// time. It owns the working draft and is safe for concurrent Submit calls;
// only one cycle runs at once.
type Controller struct {
	api     GenerationAPI
	credits CreditsAPI

	mu            sync.Mutex
	state         State
	draft         models.StoreDraft
	customization models.Customization
	suggestion    string
	errorMessage  string
	remaining     int
	hasRemaining  bool
}

// NewController creates a Controller in the Idle state.
func NewController(api GenerationAPI, credits CreditsAPI) *Controller {
	return &Controller{
		api:     api,
		credits: credits,
		state:   StateIdle,
	}
}

// Submit validates the prompt and runs one generation cycle. Validation
// failures keep the controller Idle and never reach the network. A second
// Submit while one is running returns ErrGenerationInFlight.
func (ctrl *Controller) Submit(ctx context.Context, prompt, model string) error {
	ctrl.mu.Lock()
	if ctrl.state == StateGenerating {
		ctrl.mu.Unlock()
		return ErrGenerationInFlight
	}

	trimmed, err := validation.ValidatePrompt(prompt)
	if err != nil {
		ctrl.errorMessage = err.Error()
		ctrl.mu.Unlock()
		return err
	}

	ctrl.state = StateGenerating
	ctrl.errorMessage = ""
	ctrl.mu.Unlock()

	result, err := ctrl.api.Generate(ctx, models.GenerationRequest{
		Prompt: trimmed,
		Model:  model,
	})

	ctrl.mu.Lock()
	if err != nil {
		ctrl.state = StateFailed
		ctrl.errorMessage = failureMessage(err)
		ctrl.mu.Unlock()
		ctrl.refreshCredits(ctx)
		return err
	}

	// A success replaces the draft wholesale. Nothing is merged.
	ctrl.draft = models.StoreDraft{
		StoreName: result.StoreName,
		Products:  result.Products,
	}
	ctrl.customization = result.Customization
	ctrl.suggestion = ""
	if len(result.Suggestions) > 0 {
		ctrl.suggestion = result.Suggestions[0]
	}
	ctrl.state = StateSucceeded
	ctrl.mu.Unlock()

	ctrl.refreshCredits(ctx)
	return nil
}

// failureMessage translates a cycle error into user-facing text.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInsufficientCredits):
		return "No credits left. Credits reset tomorrow."
	case errors.Is(err, llm.ErrRateLimited):
		return "Too many requests. Please wait and try again."
	}
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return fmt.Sprintf("Generation failed: %s", upstream.Message)
	}
	return fmt.Sprintf("Generation failed: %v", err)
}

// refreshCredits updates the displayed balance. Failures leave the last
// known figure in place.
func (ctrl *Controller) refreshCredits(ctx context.Context) {
	if ctrl.credits == nil {
		return
	}
	remaining, err := ctrl.credits.Remaining(ctx)
	if err != nil {
		return
	}
	ctrl.mu.Lock()
	ctrl.remaining = remaining
	ctrl.hasRemaining = true
	ctrl.mu.Unlock()
}

// State returns the current lifecycle phase.
func (ctrl *Controller) State() State {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.state
}

// Draft returns a copy of the working store draft.
func (ctrl *Controller) Draft() models.StoreDraft {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.draft
}

// Customization returns the active store customization.
func (ctrl *Controller) Customization() models.Customization {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.customization
}

// Suggestion returns the current improvement hint, if any.
func (ctrl *Controller) Suggestion() string {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.suggestion
}

// ErrorMessage returns the user-facing text for the last failure.
func (ctrl *Controller) ErrorMessage() string {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.errorMessage
}

// RemainingCredits reports the last fetched balance. The second return is
// false until a balance has been fetched.
func (ctrl *Controller) RemainingCredits() (int, bool) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.remaining, ctrl.hasRemaining
}
