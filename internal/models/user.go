package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the single identity record shared by the password and Google
// sign-in paths. PasswordHash is nil for accounts created purely via
// OAuth; GoogleID is nil until the first Google sign-in.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash *string   `json:"-"`
	GoogleID     *string   `gorm:"size:255;index" json:"-"`
	AvatarURL    *string   `gorm:"size:512" json:"avatar_url,omitempty"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"`
	LoginMethod  string    `gorm:"size:20;not null;default:'email'" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
