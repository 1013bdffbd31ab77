package repository

import (
	"ragbot_backend/internal/model"

	"gorm.io/gorm"
)

type AppConfigRepository struct {
	DB *gorm.DB
}

func NewAppConfigRepository(db *gorm.DB) *AppConfigRepository {
	return &AppConfigRepository{DB: db}
}

// Find 不创建；无配置行时返回 gorm.ErrRecordNotFound
func (r *AppConfigRepository) Find() (*model.AppConfig, error) {
	return FindSingleton[model.AppConfig](r.DB)
}

func (r *AppConfigRepository) GetOrCreate() (*model.AppConfig, error) {
	return GetOrCreateSingleton(r.DB, model.DefaultAppConfig)
}

func (r *AppConfigRepository) Save(cfg *model.AppConfig) error {
	return r.DB.Save(cfg).Error
}

func (r *AppConfigRepository) DeleteAll() error {
	return r.DB.Unscoped().Where("1 = 1").Delete(&model.AppConfig{}).Error
}
