package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"promptsite/internal/handlers"
	"promptsite/internal/middleware"
	"promptsite/internal/models"
	"promptsite/internal/repositories"
	"promptsite/internal/services"
	"promptsite/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubLLM is a canned llm.Client for driving the pipeline end to end.
type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	return s.reply, s.err
}

const goodReply = `{
	"storeName": "Test Emporium",
	"products": [
		{"id": 1, "name": "Widget", "description": "A fine widget for all occasions", "price": 9.99, "images": {}},
		{"id": 2, "name": "Gadget", "description": "A gadget that pairs with the widget", "price": 19.99, "images": {}}
	],
	"customization": {"primaryColor": "#336699", "accentColor": "#ffcc00", "font": "modern", "layout": "minimal"},
	"suggestions": ["Add a FAQ page"]
}`

const goodPrompt = "An online store selling handmade widgets and gadgets"

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(llmClient llm.Client) (*fiber.App, *gorm.DB, error) {
	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(&models.User{}, &models.UserCredits{}, &models.Project{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	creditsRepo := repositories.NewGORMCreditsRepository(db)
	projectRepo := repositories.NewGORMProjectRepository(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo, jwtSecret)
	creditsService := services.NewCreditsService(creditsRepo, models.DefaultDailyCredits)
	projectService := services.NewProjectService(projectRepo)
	generationService := services.NewGenerationService(creditsService, llmClient, nil, 0) // nil for RabbitMQ client

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	generateHandler := handlers.NewGenerateHandler(generationService, creditsService)
	projectHandler := handlers.NewProjectHandler(projectService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	apiV1.Use(middleware.AuthRequired(authService))
	generateHandler.RegisterRoutes(apiV1)
	projectHandler.RegisterRoutes(apiV1)

	return app, db, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// registerAndLogin creates a user and returns a valid bearer token plus the
// user's ID.
func registerAndLogin(t *testing.T, app *fiber.App, username string) (token, userID string) {
	t.Helper()

	userToRegister := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(userToRegister)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp struct {
		User models.User `json:"user"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&registerResp))
	resp.Body.Close()

	loginCredentials := map[string]string{
		"username": username,
		"password": "password123",
	}
	jsonBody, _ = json.Marshal(loginCredentials)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.NotEmpty(t, loginResp["token"])

	return loginResp["token"], registerResp.User.ID
}

func postGenerate(t *testing.T, app *fiber.App, token, prompt string) *http.Response {
	t.Helper()
	jsonBody, _ := json.Marshal(map[string]string{"prompt": prompt})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func getCredits(t *testing.T, app *fiber.App, token string) map[string]int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var credits map[string]int
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&credits))
	resp.Body.Close()
	return credits
}

func TestGenerateFlow(t *testing.T) {
	app, _, err := setupApp(&stubLLM{reply: goodReply})
	assert.NoError(t, err)

	token, _ := registerAndLogin(t, app, "genuser")

	// Fresh accounts see the untouched daily quota
	credits := getCredits(t, app, token)
	assert.Equal(t, models.DefaultDailyCredits, credits["daily_credits"])

	// A successful generation returns the parsed store content
	resp := postGenerate(t, app, token, goodPrompt)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var genResp struct {
		Content models.GenerationResult `json:"content"`
		Success bool                    `json:"success"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&genResp))
	resp.Body.Close()
	assert.True(t, genResp.Success)
	assert.Equal(t, "Test Emporium", genResp.Content.StoreName)
	assert.Len(t, genResp.Content.Products, 2)
	assert.Equal(t, models.FontModern, genResp.Content.Customization.Font)

	// The attempt initialized the ledger and spent one credit
	credits = getCredits(t, app, token)
	assert.Equal(t, models.DefaultDailyCredits-1, credits["daily_credits"])
}

func TestGenerateWithoutAuth(t *testing.T) {
	app, _, err := setupApp(&stubLLM{reply: goodReply})
	assert.NoError(t, err)

	resp := postGenerate(t, app, "", goodPrompt)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Not authenticated", body["error"])
}

func TestGenerateInvalidPrompt(t *testing.T) {
	app, _, err := setupApp(&stubLLM{reply: goodReply})
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "shortprompt")

	resp := postGenerate(t, app, token, "too short")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A rejected prompt never touches the ledger
	credits := getCredits(t, app, token)
	assert.Equal(t, models.DefaultDailyCredits, credits["daily_credits"])
}

func TestGenerateUnsupportedModel(t *testing.T) {
	app, _, err := setupApp(&stubLLM{reply: goodReply})
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "badmodel")

	jsonBody, _ := json.Marshal(map[string]string{"prompt": goodPrompt, "model": "acme/unknown"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGenerateInsufficientCredits(t *testing.T) {
	app, db, err := setupApp(&stubLLM{reply: goodReply})
	assert.NoError(t, err)
	token, userID := registerAndLogin(t, app, "brokeuser")

	// Exhaust the account directly
	assert.NoError(t, db.Create(&models.UserCredits{UserID: userID, DailyCredits: 0}).Error)

	resp := postGenerate(t, app, token, goodPrompt)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Insufficient credits", body["error"])
}

func TestGenerateMalformedReplyKeepsDeduction(t *testing.T) {
	app, _, err := setupApp(&stubLLM{reply: "I'm sorry, I can't produce JSON today."})
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "proseuser")

	resp := postGenerate(t, app, token, goodPrompt)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Failed to generate website", body["error"])

	// No refund for a wasted call
	credits := getCredits(t, app, token)
	assert.Equal(t, models.DefaultDailyCredits-1, credits["daily_credits"])
}

func TestGenerateRateLimitPassthrough(t *testing.T) {
	app, _, err := setupApp(&stubLLM{err: llm.ErrRateLimited})
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "limiteduser")

	resp := postGenerate(t, app, token, goodPrompt)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Rate limit exceeded. Please try again later.", body["error"])
}

func TestProjectEndpoints(t *testing.T) {
	app, _, err := setupApp(&stubLLM{reply: goodReply})
	assert.NoError(t, err)
	ownerToken, _ := registerAndLogin(t, app, "projowner")
	otherToken, _ := registerAndLogin(t, app, "projother")

	// --- Create ---
	newProject := map[string]interface{}{
		"name":   "My Widget Store",
		"prompt": goodPrompt,
		"store_data": map[string]interface{}{
			"storeName": "Test Emporium",
			"products": []map[string]interface{}{
				{"id": 1, "name": "Widget", "description": "A fine widget", "price": 9.99},
			},
		},
	}
	jsonBody, _ := json.Marshal(newProject)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Project
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "My Widget Store", created.Name)

	// --- Get (owner) ---
	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Project
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, "Test Emporium", fetched.StoreData.StoreName)

	// --- Get (another user): absence and foreign ownership look identical ---
	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// --- Update ---
	updated := map[string]interface{}{
		"name": "My Renamed Store",
	}
	jsonBody, _ = json.Marshal(updated)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/projects/"+created.ID, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// --- List: each user sees only their own ---
	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var otherProjects []models.Project
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&otherProjects))
	resp.Body.Close()
	assert.Empty(t, otherProjects)

	// --- Delete (another user) fails, owner succeeds ---
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
