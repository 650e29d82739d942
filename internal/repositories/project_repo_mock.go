package repositories

import (
	"fmt"
	"sync"

	"promptsite/internal/models"

	"github.com/google/uuid"
)

// MockProjectRepository is an in-memory implementation of ProjectRepository.
type MockProjectRepository struct {
	projects map[string]models.Project
	mu       sync.RWMutex
}

// NewMockProjectRepository creates a new instance of MockProjectRepository.
func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		projects: make(map[string]models.Project),
	}
}

// GetAllByUserID returns all projects owned by a user.
func (r *MockProjectRepository) GetAllByUserID(userID string) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projectList := make([]models.Project, 0)
	for _, p := range r.projects {
		if p.UserID == userID {
			projectList = append(projectList, p)
		}
	}
	return projectList, nil
}

// GetByID returns a project by its ID.
func (r *MockProjectRepository) GetByID(id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project with ID %s not found", id)
	}
	return &project, nil
}

// Create adds a new project.
func (r *MockProjectRepository) Create(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	r.projects[project.ID] = *project
	return nil
}

// Update modifies an existing project.
func (r *MockProjectRepository) Update(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.projects[project.ID]
	if !ok {
		return fmt.Errorf("project with ID %s not found for update", project.ID)
	}
	r.projects[project.ID] = *project
	return nil
}

// Delete removes a project by its ID.
func (r *MockProjectRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.projects[id]
	if !ok {
		return fmt.Errorf("project with ID %s not found for deletion", id)
	}
	delete(r.projects, id)
	return nil
}
