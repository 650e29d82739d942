package repositories

import (
	"fmt"

	"promptsite/internal/models"

	"gorm.io/gorm"
)

// GORMCreditsRepository is a GORM implementation of CreditsRepository.
type GORMCreditsRepository struct {
	db *gorm.DB
}

// NewGORMCreditsRepository creates a new instance of GORMCreditsRepository.
func NewGORMCreditsRepository(db *gorm.DB) *GORMCreditsRepository {
	return &GORMCreditsRepository{
		db: db,
	}
}

// GetByUserID retrieves the credits row for a user.
func (r *GORMCreditsRepository) GetByUserID(userID string) (*models.UserCredits, error) {
	var credits models.UserCredits
	if err := r.db.First(&credits, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCreditsNotFound
		}
		return nil, fmt.Errorf("failed to get credits for user %s: %w", userID, err)
	}
	return &credits, nil
}

// Create inserts a new credits row.
func (r *GORMCreditsRepository) Create(credits *models.UserCredits) error {
	if err := r.db.Create(credits).Error; err != nil {
		return fmt.Errorf("failed to create credits row for user %s: %w", credits.UserID, err)
	}
	return nil
}

// DeductOne decrements the user's balance by one in a single conditional
// UPDATE. The WHERE clause guards against going negative under concurrent
// requests: of two racing callers at a balance of 1, exactly one matches a
// row and the other observes ErrNoCreditsRemaining.
func (r *GORMCreditsRepository) DeductOne(userID string) (int, error) {
	res := r.db.Model(&models.UserCredits{}).
		Where("user_id = ? AND daily_credits > 0", userID).
		UpdateColumn("daily_credits", gorm.Expr("daily_credits - 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to deduct credit for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNoCreditsRemaining
	}

	var credits models.UserCredits
	if err := r.db.First(&credits, "user_id = ?", userID).Error; err != nil {
		// The deduction itself succeeded; report the durable outcome even if
		// the follow-up read fails.
		return 0, fmt.Errorf("credit deducted but failed to read new balance for user %s: %w", userID, err)
	}
	return credits.DailyCredits, nil
}
