package services

import (
	"errors"

	"promptsite/internal/models"
	"promptsite/internal/repositories"
)

// ErrProjectNotFound covers both a missing row and a row owned by another
// user. Ownership mismatches are indistinguishable from absence on purpose.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles business logic for saved store drafts.
type ProjectService struct {
	repo repositories.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(repo repositories.ProjectRepository) *ProjectService {
	return &ProjectService{
		repo: repo,
	}
}

// ListProjects retrieves all projects owned by the user.
func (s *ProjectService) ListProjects(userID string) ([]models.Project, error) {
	return s.repo.GetAllByUserID(userID)
}

// GetProject retrieves a single project, scoped to its owner.
func (s *ProjectService) GetProject(userID, id string) (*models.Project, error) {
	project, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// CreateProject saves a new project for the user. The owner is taken from
// the authenticated session, never from the request body.
func (s *ProjectService) CreateProject(userID string, project *models.Project) error {
	project.UserID = userID
	return s.repo.Create(project)
}

// UpdateProject updates an existing project after verifying ownership.
func (s *ProjectService) UpdateProject(userID string, project *models.Project) error {
	existing, err := s.GetProject(userID, project.ID)
	if err != nil {
		return err
	}
	project.UserID = existing.UserID
	project.CreatedAt = existing.CreatedAt
	return s.repo.Update(project)
}

// DeleteProject deletes a project after verifying ownership.
func (s *ProjectService) DeleteProject(userID, id string) error {
	if _, err := s.GetProject(userID, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
