package repository

import (
	"errors"

	"gorm.io/gorm"
)

// GetOrCreateSingleton 单例行语义：整表最多一行，读时懒创建。
// AppConfig 与 ExamConfig 共用。
func GetOrCreateSingleton[T any](db *gorm.DB, defaults func() *T) (*T, error) {
	var row T
	err := db.Order("id").First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	d := defaults()
	if err := db.Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// FindSingleton 只读取，不存在时返回 gorm.ErrRecordNotFound
func FindSingleton[T any](db *gorm.DB) (*T, error) {
	var row T
	if err := db.Order("id").First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
