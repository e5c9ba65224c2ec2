package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is a registered account, persisted in MySQL.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	DisplayName  string         `json:"display_name" gorm:"size:255"`
	Settings     datatypes.JSON `json:"settings" gorm:"type:json"` // Serialized AboutYou profile
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AboutYou is the user-editable profile shown in settings. Each field
// is mirrored into the fact store as a core fact so it reaches the
// prompt context.
type AboutYou struct {
	Nickname   string `json:"nickname"`
	Occupation string `json:"occupation"`
	About      string `json:"about"`
}
