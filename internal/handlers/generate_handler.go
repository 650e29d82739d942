package handlers

import (
	"errors"
	"log"
	"promptsite/internal/models"
	"promptsite/internal/services"
	"promptsite/internal/validation"
	"promptsite/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// GenerateHandler handles HTTP requests for store generation and credits.
type GenerateHandler struct {
	generationService *services.GenerationService
	creditsService    *services.CreditsService
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(generationService *services.GenerationService, creditsService *services.CreditsService) *GenerateHandler {
	return &GenerateHandler{
		generationService: generationService,
		creditsService:    creditsService,
	}
}

// RegisterRoutes registers the generation routes with the Fiber app.
func (h *GenerateHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/generate", h.HandleGenerate)
	router.Get("/credits", h.HandleGetCredits)
}

// HandleGenerate runs one generation cycle for the authenticated user.
func (h *GenerateHandler) HandleGenerate(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req models.GenerationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing generate request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.generationService.Generate(c.Context(), userID, req)
	if err != nil {
		return writeGenerateError(c, userID, err)
	}

	return c.JSON(fiber.Map{
		"content": result,
		"success": true,
	})
}

// writeGenerateError maps pipeline errors to the response contract.
func writeGenerateError(c *fiber.Ctx, userID string, err error) error {
	switch {
	case validation.IsPromptError(err), errors.Is(err, services.ErrUnsupportedModel):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": "Insufficient credits",
		})
	case errors.Is(err, llm.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Rate limit exceeded. Please try again later.",
		})
	}

	log.Printf("Generation failed for user %s: %v", userID, err)

	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to generate website",
			"details": upstream.Message,
		})
	}
	if errors.Is(err, services.ErrMalformedReply) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to generate website",
			"details": err.Error(),
		})
	}
	// Ledger failures and anything unclassified stay opaque.
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to generate website",
	})
}

// HandleGetCredits reports the user's remaining daily credits. The figure is
// advisory; only a generation attempt spends or initializes credits.
func (h *GenerateHandler) HandleGetCredits(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	credits, err := h.creditsService.Remaining(userID)
	if err != nil {
		log.Printf("Error fetching credits for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch credits",
		})
	}

	return c.JSON(fiber.Map{
		"daily_credits": credits.DailyCredits,
		"total_credits": credits.TotalCredits,
	})
}
