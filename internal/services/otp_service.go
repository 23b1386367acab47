package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
	"github.com/inventoryhub/backend/internal/repository"
	"github.com/inventoryhub/backend/internal/token"
)

var (
	// ErrCodeInvalid conflates wrong, reused and expired codes so the
	// response is useless as a guessing oracle.
	ErrCodeInvalid = errors.New("invalid or expired OTP")
	// ErrResetTokenInvalid is the second-phase equivalent.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)

// VerificationCodeStore is the email-verification OTP namespace.
type VerificationCodeStore interface {
	Replace(ctx context.Context, code *models.VerificationCode) error
	FindUnused(ctx context.Context, userID uuid.UUID, code string) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// PasswordResetStore is the password-reset OTP namespace.
type PasswordResetStore interface {
	Replace(ctx context.Context, reset *models.PasswordReset) error
	FindIssued(ctx context.Context, userID uuid.UUID, code string) (*models.PasswordReset, error)
	MarkCodeVerified(ctx context.Context, id uuid.UUID, resetToken string, tokenExpiresAt time.Time) error
	ByResetToken(ctx context.Context, resetToken string) (*models.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// OTPService manages both one-time-code namespaces. Issuance always
// replaces prior codes, so at most one code per user per namespace is
// usable at any time.
type OTPService struct {
	codes    VerificationCodeStore
	resets   PasswordResetStore
	ttl      time.Duration
	tokenTTL time.Duration
	now      func() time.Time
}

func NewOTPService(codes VerificationCodeStore, resets PasswordResetStore, ttl, tokenTTL time.Duration) *OTPService {
	return &OTPService{
		codes:    codes,
		resets:   resets,
		ttl:      ttl,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// IssueVerification creates a fresh email-verification code for the
// user, invalidating any previous one. The code is returned to the
// caller, which decides whether to email it or echo it in dev mode.
func (s *OTPService) IssueVerification(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := token.NewOTPCode()
	if err != nil {
		return "", err
	}

	rec := &models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.codes.Replace(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// VerifyEmailCode consumes a verification code. Wrong, reused and
// expired codes all fail the same way.
func (s *OTPService) VerifyEmailCode(ctx context.Context, userID uuid.UUID, code string) error {
	rec, err := s.codes.FindUnused(ctx, userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCodeInvalid
		}
		return err
	}
	if !rec.ExpiresAt.After(s.now()) {
		return ErrCodeInvalid
	}
	return s.codes.MarkUsed(ctx, rec.ID)
}

// IssueReset starts a new password-reset attempt, wiping any prior
// attempt for the user.
func (s *OTPService) IssueReset(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := token.NewOTPCode()
	if err != nil {
		return "", err
	}

	rec := &models.PasswordReset{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
		Status:    models.ResetStatusIssued,
	}
	if err := s.resets.Replace(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}
	return code, nil
}

// VerifyResetCode moves a reset attempt from issued to code_verified
// and mints the second-phase token that authorizes the actual password
// change. The numeric code is dead after this call.
func (s *OTPService) VerifyResetCode(ctx context.Context, userID uuid.UUID, code string) (string, time.Time, error) {
	rec, err := s.resets.FindIssued(ctx, userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrCodeInvalid
		}
		return "", time.Time{}, err
	}
	if !rec.ExpiresAt.After(s.now()) {
		return "", time.Time{}, ErrCodeInvalid
	}

	resetToken, err := token.NewSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := s.now().Add(s.tokenTTL)

	if err := s.resets.MarkCodeVerified(ctx, rec.ID, resetToken, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store reset token: %w", err)
	}
	return resetToken, expiresAt, nil
}

// ResetTokenUser validates a second-phase token and returns the user it
// belongs to. It does not consume the record; the caller deletes all
// reset rows once the password is actually changed.
func (s *OTPService) ResetTokenUser(ctx context.Context, resetToken string) (uuid.UUID, error) {
	if resetToken == "" {
		return uuid.Nil, ErrResetTokenInvalid
	}

	rec, err := s.resets.ByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, ErrResetTokenInvalid
		}
		return uuid.Nil, err
	}
	if rec.TokenExpiresAt == nil || !rec.TokenExpiresAt.After(s.now()) {
		return uuid.Nil, ErrResetTokenInvalid
	}
	return rec.UserID, nil
}

// ClearResets removes every reset record for the user, the terminal
// state of a completed reset.
func (s *OTPService) ClearResets(ctx context.Context, userID uuid.UUID) error {
	return s.resets.DeleteByUser(ctx, userID)
}
