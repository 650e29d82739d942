package repositories

import "promptsite/internal/models"

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	GetAllByUserID(userID string) ([]models.Project, error)
	GetByID(id string) (*models.Project, error)
	Create(project *models.Project) error
	Update(project *models.Project) error
	Delete(id string) error
}
