package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type RecoveryTokenRepo struct {
	DB *gorm.DB
}

// Issue deletes every prior token for the owning user before creating the
// new one, inside one transaction. At most one valid token per user.
func (r *RecoveryTokenRepo) Issue(ctx context.Context, t *models.RecoveryToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", t.UserID).Delete(&models.RecoveryToken{}).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *RecoveryTokenRepo) GetByToken(ctx context.Context, token string) (*models.RecoveryToken, error) {
	var t models.RecoveryToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recovery token: %w", service.ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *RecoveryTokenRepo) MarkUsed(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.RecoveryToken{}).
		Where("id = ?", id).Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recovery token %d: %w", id, service.ErrNotFound)
	}
	return nil
}
