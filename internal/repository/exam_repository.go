package repository

import (
	"ragbot_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// ---- 题目 ----

func (r *ExamRepository) ListQuestions() ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := r.DB.Order("order_index").Find(&questions).Error
	return questions, err
}

func (r *ExamRepository) ListActiveQuestions() ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := r.DB.Where("is_active = ?", true).Order("order_index").Find(&questions).Error
	return questions, err
}

func (r *ExamRepository) FindQuestionByID(id uint) (*model.ExamQuestion, error) {
	var question model.ExamQuestion
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *ExamRepository) CreateQuestion(q *model.ExamQuestion) error {
	return r.DB.Create(q).Error
}

func (r *ExamRepository) SaveQuestion(q *model.ExamQuestion) error {
	return r.DB.Save(q).Error
}

func (r *ExamRepository) DeleteQuestion(q *model.ExamQuestion) error {
	return r.DB.Delete(q).Error
}

func (r *ExamRepository) DeleteAllQuestions() error {
	return r.DB.Unscoped().Where("1 = 1").Delete(&model.ExamQuestion{}).Error
}

// ---- 测验配置（单例行） ----

func (r *ExamRepository) GetOrCreateConfig() (*model.ExamConfig, error) {
	return GetOrCreateSingleton(r.DB, model.DefaultExamConfig)
}

func (r *ExamRepository) SaveConfig(cfg *model.ExamConfig) error {
	return r.DB.Save(cfg).Error
}

func (r *ExamRepository) DeleteConfig() error {
	return r.DB.Unscoped().Where("1 = 1").Delete(&model.ExamConfig{}).Error
}

// ---- 成绩 ----

func (r *ExamRepository) CreateResult(result *model.ExamResult) error {
	return r.DB.Create(result).Error
}

// MarkWebhookSent 成绩行创建后唯一允许的更新
func (r *ExamRepository) MarkWebhookSent(id uint) error {
	return r.DB.Model(&model.ExamResult{}).Where("id = ?", id).Update("webhook_sent", true).Error
}

func (r *ExamRepository) ListRecentResults(limit int) ([]model.ExamResult, error) {
	var results []model.ExamResult
	err := r.DB.Order("completed_at DESC").Limit(limit).Find(&results).Error
	return results, err
}

func (r *ExamRepository) DeleteAllResults() error {
	return r.DB.Unscoped().Where("1 = 1").Delete(&model.ExamResult{}).Error
}
