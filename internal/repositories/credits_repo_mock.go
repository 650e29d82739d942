package repositories

import (
	"fmt"
	"sync"

	"promptsite/internal/models"
)

// MockCreditsRepository is an in-memory implementation of CreditsRepository.
// The mutex gives it the same check-and-decrement atomicity the GORM
// implementation gets from its conditional UPDATE.
type MockCreditsRepository struct {
	rows map[string]*models.UserCredits
	mu   sync.Mutex
}

// NewMockCreditsRepository creates a new instance of MockCreditsRepository.
func NewMockCreditsRepository() *MockCreditsRepository {
	return &MockCreditsRepository{
		rows: make(map[string]*models.UserCredits),
	}
}

// GetByUserID returns the credits row for a user.
func (r *MockCreditsRepository) GetByUserID(userID string) (*models.UserCredits, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	credits, ok := r.rows[userID]
	if !ok {
		return nil, ErrCreditsNotFound
	}
	copied := *credits
	return &copied, nil
}

// Create adds a new credits row.
func (r *MockCreditsRepository) Create(credits *models.UserCredits) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[credits.UserID]; ok {
		return fmt.Errorf("credits row for user %s already exists", credits.UserID)
	}
	copied := *credits
	r.rows[credits.UserID] = &copied
	return nil
}

// DeductOne decrements the balance while it is still positive.
func (r *MockCreditsRepository) DeductOne(userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	credits, ok := r.rows[userID]
	if !ok || credits.DailyCredits <= 0 {
		return 0, ErrNoCreditsRemaining
	}
	credits.DailyCredits--
	return credits.DailyCredits, nil
}
