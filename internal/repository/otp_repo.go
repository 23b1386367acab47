package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
	"gorm.io/gorm"
)

type VerificationCodeRepo struct {
	db *gorm.DB
}

func NewVerificationCodeRepo(db *gorm.DB) *VerificationCodeRepo {
	return &VerificationCodeRepo{db: db}
}

// Replace deletes every code for the user and inserts the new one in a
// single transaction, so concurrent issuance never leaves two usable
// codes behind.
func (r *VerificationCodeRepo) Replace(ctx context.Context, code *models.VerificationCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", code.UserID).Delete(&models.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *VerificationCodeRepo) FindUnused(ctx context.Context, userID uuid.UUID, code string) (*models.VerificationCode, error) {
	var rec models.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND used = false", userID, code).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *VerificationCodeRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.VerificationCode{}).
		Where("id = ?", id).Update("used", true).Error
}

type PasswordResetRepo struct {
	db *gorm.DB
}

func NewPasswordResetRepo(db *gorm.DB) *PasswordResetRepo {
	return &PasswordResetRepo{db: db}
}

// Replace deletes every reset record for the user and inserts the new
// one, same transactional pattern as verification codes.
func (r *PasswordResetRepo) Replace(ctx context.Context, reset *models.PasswordReset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", reset.UserID).Delete(&models.PasswordReset{}).Error; err != nil {
			return err
		}
		return tx.Create(reset).Error
	})
}

func (r *PasswordResetRepo) FindIssued(ctx context.Context, userID uuid.UUID, code string) (*models.PasswordReset, error) {
	var rec models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND status = ?", userID, code, models.ResetStatusIssued).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PasswordResetRepo) MarkCodeVerified(ctx context.Context, id uuid.UUID, resetToken string, tokenExpiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.PasswordReset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.ResetStatusCodeVerified,
			"reset_token":      resetToken,
			"token_expires_at": tokenExpiresAt,
		}).Error
}

func (r *PasswordResetRepo) ByResetToken(ctx context.Context, resetToken string) (*models.PasswordReset, error) {
	var rec models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND status = ?", resetToken, models.ResetStatusCodeVerified).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PasswordResetRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error
}
