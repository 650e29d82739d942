package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"promptsite/internal/models"
	"promptsite/internal/repositories"
)

// CreditsService handles the per-user generation quota. The ledger row is
// created lazily on the first generation attempt; after that the only
// mutation is the repository's conditional decrement.
type CreditsService struct {
	repo           repositories.CreditsRepository
	defaultCredits int
}

// NewCreditsService creates a new CreditsService. defaultCredits is the
// first-use daily quota; values below 1 fall back to the standard default.
func NewCreditsService(repo repositories.CreditsRepository, defaultCredits int) *CreditsService {
	if defaultCredits < 1 {
		defaultCredits = models.DefaultDailyCredits
	}
	return &CreditsService{
		repo:           repo,
		defaultCredits: defaultCredits,
	}
}

// CheckAndDeduct spends one credit for the user and returns the balance after
// the deduction. A missing row is initialized with the default quota first
// (an initialization side effect, not a failure). Returns
// ErrInsufficientCredits when the balance is already zero and
// ErrLedgerUnavailable when the store itself fails; callers must not proceed
// to generation on either.
func (s *CreditsService) CheckAndDeduct(userID string) (int, error) {
	_, err := s.repo.GetByUserID(userID)
	if errors.Is(err, repositories.ErrCreditsNotFound) {
		if createErr := s.initialize(userID); createErr != nil {
			return 0, createErr
		}
	} else if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	remaining, err := s.repo.DeductOne(userID)
	if errors.Is(err, repositories.ErrNoCreditsRemaining) {
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	log.Printf("Deducted 1 credit for user %s, %d remaining", userID, remaining)
	return remaining, nil
}

// Remaining returns the user's credits row for display purposes. A missing
// row reports the untouched default quota without initializing anything: the
// ledger is only ever created by a generation attempt.
func (s *CreditsService) Remaining(userID string) (*models.UserCredits, error) {
	credits, err := s.repo.GetByUserID(userID)
	if errors.Is(err, repositories.ErrCreditsNotFound) {
		return &models.UserCredits{UserID: userID, DailyCredits: s.defaultCredits}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return credits, nil
}

// initialize creates the first-use row. A concurrent request may win the
// insert race; that is treated as success since a row now exists either way.
func (s *CreditsService) initialize(userID string) error {
	credits := &models.UserCredits{
		UserID:        userID,
		DailyCredits:  s.defaultCredits,
		TotalCredits:  s.defaultCredits,
		LastResetDate: time.Now().UTC().Truncate(24 * time.Hour),
	}
	if err := s.repo.Create(credits); err != nil {
		if _, getErr := s.repo.GetByUserID(userID); getErr == nil {
			log.Printf("Credits row for user %s created by a concurrent request", userID)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	log.Printf("Initialized credits for user %s with %d daily credits", userID, s.defaultCredits)
	return nil
}
