package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is an email-verification OTP. Issuance deletes any
// prior rows for the user, so at most one usable code exists at a time.
type VerificationCode struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// PasswordReset statuses. The terminal state has no value: completing a
// reset deletes every row for the user.
const (
	ResetStatusIssued       = "issued"
	ResetStatusCodeVerified = "code_verified"
)

// PasswordReset is a two-phase reset record: a short numeric code, then
// an opaque reset token minted once the code is presented.
type PasswordReset struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Code           string     `gorm:"size:6;not null" json:"-"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	Status         string     `gorm:"size:20;not null;default:'issued'" json:"status"`
	ResetToken     *string    `gorm:"size:64;uniqueIndex" json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
