package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"context"

	"gorm.io/gorm"
)

// Passkey credentials

func (r *Repo) AddCredential(ctx context.Context, c *models.Credential) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repo) LoadAccountCredentials(ctx context.Context, accountID uint) ([]models.Credential, error) {
	var cs []models.Credential
	if err := r.DB.WithContext(ctx).Where("account_id = ?", accountID).Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *Repo) CountCredentials(ctx context.Context, accountID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Credential{}).
		Where("account_id = ?", accountID).
		Count(&n).Error
	return n, err
}

func (r *Repo) UpdateCredentialCounter(ctx context.Context, credID []byte, newCount uint32, cloneWarn bool) error {
	return r.DB.WithContext(ctx).Model(&models.Credential{}).
		Where("credential_id = ?", credID).
		Updates(map[string]any{"sign_count": newCount, "clone_warning": cloneWarn}).Error
}

func (r *Repo) TouchCredentialUsed(ctx context.Context, credID []byte) error {
	return r.DB.WithContext(ctx).Model(&models.Credential{}).
		Where("credential_id = ?", credID).
		Update("last_used_at", gorm.Expr("NOW()")).Error
}

func (r *Repo) FindAccountByCredentialID(ctx context.Context, credID []byte) (*models.Account, *models.Credential, error) {
	var c models.Credential
	if err := r.DB.WithContext(ctx).Where("credential_id = ?", credID).First(&c).Error; err != nil {
		return nil, nil, translate(err)
	}
	var a models.Account
	if err := r.DB.WithContext(ctx).Preload("Role").First(&a, "id = ?", c.AccountID).Error; err != nil {
		return nil, nil, translate(err)
	}
	return &a, &c, nil
}
