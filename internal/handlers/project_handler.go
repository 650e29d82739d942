package handlers

import (
	"errors"
	"fmt"
	"log"
	"promptsite/internal/models"
	"promptsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles HTTP requests for saved store projects.
type ProjectHandler struct {
	service  *services.ProjectService
	validate *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the project routes with the Fiber app.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router) {
	projectRoutes := router.Group("/projects")
	projectRoutes.Get("/", h.HandleListProjects)
	projectRoutes.Get("/:id", h.HandleGetProject)
	projectRoutes.Post("/", h.HandleCreateProject)
	projectRoutes.Put("/:id", h.HandleUpdateProject)
	projectRoutes.Delete("/:id", h.HandleDeleteProject)
}

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// HandleListProjects retrieves all projects owned by the authenticated user.
func (h *ProjectHandler) HandleListProjects(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	projects, err := h.service.ListProjects(userID)
	if err != nil {
		log.Printf("Error listing projects for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve projects",
			"error":   err.Error(),
		})
	}
	return c.JSON(projects)
}

// HandleGetProject retrieves a single project by its ID.
func (h *ProjectHandler) HandleGetProject(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	projectID := c.Params("id")
	project, err := h.service.GetProject(userID, projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Project with ID %s not found", projectID),
			})
		}
		log.Printf("Error getting project %s: %v", projectID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve project",
			"error":   err.Error(),
		})
	}
	return c.JSON(project)
}

// HandleCreateProject saves a new project for the authenticated user.
func (h *ProjectHandler) HandleCreateProject(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var project models.Project
	if err := c.BodyParser(&project); err != nil {
		log.Printf("Error parsing project request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// The owner is the session identity; the body cannot set it.
	project.UserID = userID

	if err := h.validate.Struct(project); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateProject(userID, &project); err != nil {
		log.Printf("Error creating project for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create project",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// HandleUpdateProject updates an existing project's store data.
func (h *ProjectHandler) HandleUpdateProject(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var project models.Project
	if err := c.BodyParser(&project); err != nil {
		log.Printf("Error parsing project request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	project.ID = c.Params("id")
	project.UserID = userID

	if err := h.validate.Struct(project); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.UpdateProject(userID, &project); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Project with ID %s not found", project.ID),
			})
		}
		log.Printf("Error updating project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update project",
			"error":   err.Error(),
		})
	}
	return c.JSON(project)
}

// HandleDeleteProject deletes a project by its ID.
func (h *ProjectHandler) HandleDeleteProject(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	projectID := c.Params("id")
	if err := h.service.DeleteProject(userID, projectID); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Project with ID %s not found", projectID),
			})
		}
		log.Printf("Error deleting project %s: %v", projectID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete project",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Project %s deleted successfully", projectID),
	})
}
