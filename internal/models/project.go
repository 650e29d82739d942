package models

import "gorm.io/gorm"

// Project is a persisted snapshot of a user's store draft: the prompt that
// produced it plus the editable store data and customization at save time.
type Project struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID        string         `json:"user_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	Name          string         `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Prompt        string         `json:"prompt,omitempty" gorm:"type:text" validate:"omitempty,max=2000"`
	StoreData     *StoreDraft    `json:"store_data,omitempty" gorm:"serializer:json"`
	Customization *Customization `json:"customization,omitempty" gorm:"serializer:json"`
	gorm.Model
}
