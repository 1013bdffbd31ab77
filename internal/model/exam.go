package model

import "time"

// ExamQuestion 单选题，选项 A/B 必填，C/D 可选
type ExamQuestion struct {
	BaseModel
	QuestionText     string `gorm:"type:text;not null" json:"question_text"`
	QuestionImageURL string `gorm:"size:512" json:"question_image_url"`
	OptionA          string `gorm:"size:512;not null" json:"option_a"`
	OptionB          string `gorm:"size:512;not null" json:"option_b"`
	OptionC          string `gorm:"size:512" json:"option_c"`
	OptionD          string `gorm:"size:512" json:"option_d"`
	CorrectAnswer    string `gorm:"size:4;not null" json:"correct_answer"` // 选项字母，大小写不敏感
	Explanation      string `gorm:"type:text" json:"explanation"`
	OrderIndex       int    `gorm:"default:0" json:"order_index"`
	IsActive         bool   `gorm:"default:true" json:"is_active"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// ExamConfig 测验配置单例行
type ExamConfig struct {
	BaseModel
	PassingScore       float64 `gorm:"default:70" json:"passing_score"`
	ExamTitle          string  `gorm:"size:255" json:"exam_title"`
	ExamDescription    string  `gorm:"type:text" json:"exam_description"`
	ShowCorrectAnswers bool    `gorm:"default:true" json:"show_correct_answers"`
	ShuffleQuestions   bool    `gorm:"default:false" json:"shuffle_questions"`
}

func (ExamConfig) TableName() string {
	return "exam_config"
}

const (
	DefaultPassingScore = 70.0
	DefaultExamTitle    = "Knowledge Assessment"
)

func DefaultExamConfig() *ExamConfig {
	return &ExamConfig{
		PassingScore:       DefaultPassingScore,
		ExamTitle:          DefaultExamTitle,
		ShowCorrectAnswers: true,
	}
}

// ExamResult 一次完整提交的成绩，除 webhook_sent 外创建后不再更新
type ExamResult struct {
	BaseModel
	ExternalUserID   string    `gorm:"size:255" json:"external_user_id"`
	ExternalUserName string    `gorm:"size:255" json:"external_user_name"`
	SessionID        string    `gorm:"size:255;index;not null" json:"session_id"`
	TotalQuestions   int       `gorm:"not null" json:"total_questions"`
	CorrectAnswers   int       `gorm:"not null" json:"correct_answers"`
	ScorePercentage  float64   `gorm:"not null" json:"score_percentage"`
	Passed           bool      `gorm:"not null" json:"passed"`
	WebhookURL       string    `gorm:"size:512" json:"-"`
	WebhookSent      bool      `gorm:"default:false" json:"webhook_sent"`
	CompletedAt      time.Time `json:"completed_at"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}
