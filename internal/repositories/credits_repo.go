package repositories

import (
	"errors"

	"promptsite/internal/models"
)

// ErrCreditsNotFound is returned when no credits row exists for a user yet.
var ErrCreditsNotFound = errors.New("credits row not found")

// ErrNoCreditsRemaining is returned by DeductOne when the conditional
// decrement matched no row, i.e. the balance was already zero.
var ErrNoCreditsRemaining = errors.New("no credits remaining")

// CreditsRepository defines the interface for credits ledger data access.
// DeductOne must be a single atomic conditional update: decrement only while
// the balance is still positive, and report a zero-rows outcome as
// ErrNoCreditsRemaining. That is the authoritative double-spend protection.
type CreditsRepository interface {
	GetByUserID(userID string) (*models.UserCredits, error)
	Create(credits *models.UserCredits) error
	DeductOne(userID string) (remaining int, err error)
}
