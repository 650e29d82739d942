package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"promptsite/internal/models"
	"promptsite/internal/validation"
	"promptsite/pkg/llm"
	"promptsite/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultModel is used when the request omits a model identifier.
const DefaultModel = "google/gemini-2.5-flash"

// supportedModels is the allow-list of model identifiers the gateway will
// forward to the completion provider. Unknown identifiers are rejected.
var supportedModels = map[string]bool{
	"google/gemini-2.5-flash":      true,
	"google/gemini-2.5-pro":        true,
	"google/gemini-2.5-flash-lite": true,
	"openai/gpt-5-nano":            true,
	"openai/gpt-5-mini":            true,
	"openai/gpt-5":                 true,
}

// systemPrompt instructs the model to answer with a raw JSON store document.
const systemPrompt = `You are an expert e-commerce website designer and developer. Generate a comprehensive JSON response for an e-commerce store.

IMPORTANT: Return ONLY valid JSON in this EXACT structure (no markdown, no code blocks):
{
  "storeName": "Store Name Here",
  "products": [
    {
      "id": 1,
      "name": "Product Name",
      "description": "Detailed product description (50-100 chars)",
      "price": 99.99,
      "images": {}
    }
  ],
  "customization": {
    "primaryColor": "#hexcolor",
    "accentColor": "#hexcolor",
    "font": "modern",
    "layout": "minimal"
  },
  "suggestions": ["Improvement suggestion 1", "Improvement suggestion 2", "Improvement suggestion 3"]
}

Guidelines:
- Generate 3-6 products that match the user's description
- Make product descriptions compelling and detailed
- Choose prices that fit the product category
- Select appropriate colors that match the store theme
- Font options: "modern", "classic", or "playful"
- Layout options: "minimal", "bold", or "elegant"
- Provide 3-5 actionable improvement suggestions
- Ensure all product names and descriptions are relevant to the prompt`

// GenerationEventPublisher publishes advisory events after a completed
// generation. Implemented by the RabbitMQ client; nil-safe in the service.
type GenerationEventPublisher interface {
	PublishGenerationCompleted(event rabbitmq.GenerationEvent) error
}

// GenerationService is the gateway mediating between an authenticated caller
// and the language-model provider. Each request walks a fixed sequence of
// validate, meter, call, parse. Requests are stateless across calls except
// for the durable credit deduction.
type GenerationService struct {
	credits  *CreditsService
	llm      llm.Client
	mq       GenerationEventPublisher
	validate *validator.Validate
	timeout  time.Duration
}

// NewGenerationService creates a new GenerationService. timeout bounds the
// provider call; values <= 0 fall back to 60 seconds.
func NewGenerationService(credits *CreditsService, llmClient llm.Client, mq GenerationEventPublisher, timeout time.Duration) *GenerationService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GenerationService{
		credits:  credits,
		llm:      llmClient,
		mq:       mq,
		validate: validator.New(),
		timeout:  timeout,
	}
}

// Generate runs one generation cycle for an already-authenticated user.
// Order matters: the credit is deducted before the provider call, so a slow
// or retried downstream call can never produce free generations. The
// accepted tradeoff is that a failure after metering still costs the
// credit; there is no refund path.
func (s *GenerationService) Generate(ctx context.Context, userID string, req models.GenerationRequest) (*models.GenerationResult, error) {
	// 1. Validate the prompt with the thresholds shared with the client.
	prompt, err := validation.ValidatePrompt(req.Prompt)
	if err != nil {
		return nil, err
	}

	// 2. Resolve and check the model identifier.
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	if !supportedModels[model] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}

	// 3. Meter. Failures here stop the request before any provider call.
	remaining, err := s.credits.CheckAndDeduct(userID)
	if err != nil {
		return nil, err
	}

	// 4-5. Call the provider once, bounded by the configured timeout.
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.llm.Complete(callCtx, model, systemPrompt, prompt)
	if err != nil {
		log.Printf("Model call failed for user %s (model %s): %v", userID, model, err)
		return nil, err
	}

	// 6. Parse and validate the reply against the store schema.
	result, err := parseGenerationReply(content)
	if err != nil {
		log.Printf("Discarding unparseable model reply for user %s: %v", userID, err)
		return nil, err
	}
	if err := s.validate.Struct(result); err != nil {
		log.Printf("Model reply failed schema validation for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	// 7. Publish the advisory event; a broker failure never fails the request.
	s.publishCompleted(userID, model, result, remaining)

	return result, nil
}

// parseGenerationReply strips accidental markdown fences and unmarshals the
// reply. storeName and a non-empty products collection are required; anything
// less is rejected wholesale rather than returned partially parsed.
func parseGenerationReply(content string) (*models.GenerationResult, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result models.GenerationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if result.StoreName == "" {
		return nil, fmt.Errorf("%w: missing storeName", ErrMalformedReply)
	}
	if len(result.Products) == 0 {
		return nil, fmt.Errorf("%w: missing or empty products", ErrMalformedReply)
	}
	return &result, nil
}

func (s *GenerationService) publishCompleted(userID, model string, result *models.GenerationResult, remaining int) {
	if s.mq == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	event := rabbitmq.GenerationEvent{
		RequestID:        uuid.New().String(),
		UserID:           userID,
		Model:            model,
		StoreName:        result.StoreName,
		ProductCount:     len(result.Products),
		RemainingCredits: remaining,
		GeneratedAt:      time.Now().UTC(),
	}
	if err := s.mq.PublishGenerationCompleted(event); err != nil {
		log.Printf("Warning: Failed to publish generation event for user %s: %v", userID, err)
	} else {
		log.Printf("Successfully published generation event for user %s", userID)
	}
}
