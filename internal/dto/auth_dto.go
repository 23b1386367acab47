package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyResetOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type RegisterResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	EmailSent bool         `json:"emailSent"`
	Simulated bool         `json:"simulated,omitempty"`
	// OTP is populated only in development mode.
	OTP string `json:"otp,omitempty"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type SendOTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
	Simulated bool   `json:"simulated,omitempty"`
	OTP       string `json:"otp,omitempty"`
}

type MeResponse struct {
	Success bool   `json:"success"`
	User    MeUser `json:"user"`
}

type MeUser struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

type GoogleURLResponse struct {
	URL string `json:"url"`
}

type GoogleLoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type ForgotPasswordResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Simulated bool   `json:"simulated,omitempty"`
	OTP       string `json:"otp,omitempty"`
}

type VerifyResetOTPResponse struct {
	Success    bool      `json:"success"`
	ResetToken string    `json:"resetToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the failure envelope: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
