package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultDailyCredits is the quota granted when a credits row is first created.
const DefaultDailyCredits = 10

// UserCredits is the per-user generation quota row. Exactly one row exists per
// user; it is created lazily on the first generation attempt. DailyCredits is
// never negative: the only mutation is a conditional single-statement decrement.
// Resetting DailyCredits back to the daily default is an external scheduled
// concern and is not handled by this service.
type UserCredits struct {
	UserID        string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required,uuid"`
	DailyCredits  int       `json:"daily_credits" validate:"gte=0"`
	TotalCredits  int       `json:"total_credits" validate:"gte=0"`
	LastResetDate time.Time `json:"last_reset_date"`
	gorm.Model
}
