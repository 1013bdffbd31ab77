package service

import (
	"errors"
	"ragbot_backend/internal/model"
	"ragbot_backend/internal/repository"
	"strings"

	"gorm.io/gorm"
)

type AppConfigService struct {
	ConfigRepo *repository.AppConfigRepository
	UserRepo   *repository.UserRepository
	ExamRepo   *repository.ExamRepository
}

func NewAppConfigService(configRepo *repository.AppConfigRepository, userRepo *repository.UserRepository, examRepo *repository.ExamRepository) *AppConfigService {
	return &AppConfigService{
		ConfigRepo: configRepo,
		UserRepo:   userRepo,
		ExamRepo:   examRepo,
	}
}

// AppConfigPatch 部分更新：nil 字段保持原值
type AppConfigPatch struct {
	AWSAccessKeyID     *string `json:"aws_access_key_id"`
	AWSSecretAccessKey *string `json:"aws_secret_access_key"`
	AWSAccountID       *string `json:"aws_account_id"`
	AWSRegion          *string `json:"aws_region"`
	S3BucketName       *string `json:"s3_bucket_name"`
	KBID               *string `json:"kb_id"`
	DataSourceID       *string `json:"data_source_id"`
	BotName            *string `json:"bot_name"`
	GreetingMessage    *string `json:"greeting_message"`
	ModelARN           *string `json:"model_arn"`
	EnableExamMode     *bool   `json:"enable_exam_mode"`
	WebhookURL         *string `json:"webhook_url"`

	PrimaryColor             *string `json:"primary_color"`
	PrimaryForeground        *string `json:"primary_foreground"`
	ChatBubbleUser           *string `json:"chat_bubble_user"`
	ChatBubbleUserForeground *string `json:"chat_bubble_user_foreground"`
	ChatBubbleBot            *string `json:"chat_bubble_bot"`
	ChatBubbleBotForeground  *string `json:"chat_bubble_bot_foreground"`
}

// PublicAppConfig 未认证的挂件可见的字段，绝不包含凭证和资源标识
type PublicAppConfig struct {
	BotName           string `json:"bot_name"`
	GreetingMessage   string `json:"greeting_message"`
	EnableExamMode    bool   `json:"enable_exam_mode"`
	WebhookConfigured bool   `json:"webhook_configured"`

	PrimaryColor             string `json:"primary_color"`
	PrimaryForeground        string `json:"primary_foreground"`
	ChatBubbleUser           string `json:"chat_bubble_user"`
	ChatBubbleUserForeground string `json:"chat_bubble_user_foreground"`
	ChatBubbleBot            string `json:"chat_bubble_bot"`
	ChatBubbleBotForeground  string `json:"chat_bubble_bot_foreground"`
}

// GetConfig 无配置行时返回文档化的默认值，不落库
func (s *AppConfigService) GetConfig() (*model.AppConfig, error) {
	cfg, err := s.ConfigRepo.Find()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultAppConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *AppConfigService) UpdateConfig(patch *AppConfigPatch) error {
	cfg, err := s.ConfigRepo.GetOrCreate()
	if err != nil {
		return err
	}

	if patch.AWSAccessKeyID != nil {
		cfg.AWSAccessKeyID = *patch.AWSAccessKeyID
	}
	if patch.AWSSecretAccessKey != nil {
		cfg.AWSSecretAccessKey = *patch.AWSSecretAccessKey
	}
	if patch.AWSAccountID != nil {
		cfg.AWSAccountID = *patch.AWSAccountID
	}
	if patch.AWSRegion != nil {
		cfg.AWSRegion = *patch.AWSRegion
	}
	if patch.S3BucketName != nil {
		cfg.S3BucketName = *patch.S3BucketName
	}
	if patch.KBID != nil {
		cfg.KBID = *patch.KBID
	}
	if patch.DataSourceID != nil {
		cfg.DataSourceID = *patch.DataSourceID
	}
	if patch.BotName != nil {
		cfg.BotName = *patch.BotName
	}
	if patch.GreetingMessage != nil {
		cfg.GreetingMessage = *patch.GreetingMessage
	}
	if patch.ModelARN != nil {
		cfg.ModelARN = *patch.ModelARN
	}
	if patch.EnableExamMode != nil {
		cfg.EnableExamMode = *patch.EnableExamMode
	}
	if patch.WebhookURL != nil {
		// 空串视为清除 webhook
		cfg.WebhookURL = strings.TrimSpace(*patch.WebhookURL)
	}
	if patch.PrimaryColor != nil {
		cfg.PrimaryColor = *patch.PrimaryColor
	}
	if patch.PrimaryForeground != nil {
		cfg.PrimaryForeground = *patch.PrimaryForeground
	}
	if patch.ChatBubbleUser != nil {
		cfg.ChatBubbleUser = *patch.ChatBubbleUser
	}
	if patch.ChatBubbleUserForeground != nil {
		cfg.ChatBubbleUserForeground = *patch.ChatBubbleUserForeground
	}
	if patch.ChatBubbleBot != nil {
		cfg.ChatBubbleBot = *patch.ChatBubbleBot
	}
	if patch.ChatBubbleBotForeground != nil {
		cfg.ChatBubbleBotForeground = *patch.ChatBubbleBotForeground
	}

	return s.ConfigRepo.Save(cfg)
}

func (s *AppConfigService) GetPublicConfig() (*PublicAppConfig, error) {
	cfg, err := s.GetConfig()
	if err != nil {
		return nil, err
	}

	return &PublicAppConfig{
		BotName:                  cfg.BotName,
		GreetingMessage:          cfg.GreetingMessage,
		EnableExamMode:           cfg.EnableExamMode,
		WebhookConfigured:        cfg.WebhookURL != "",
		PrimaryColor:             cfg.PrimaryColor,
		PrimaryForeground:        cfg.PrimaryForeground,
		ChatBubbleUser:           cfg.ChatBubbleUser,
		ChatBubbleUserForeground: cfg.ChatBubbleUserForeground,
		ChatBubbleBot:            cfg.ChatBubbleBot,
		ChatBubbleBotForeground:  cfg.ChatBubbleBotForeground,
	}, nil
}

// Reset 清空配置、账号和测验数据，系统回到安装向导状态
func (s *AppConfigService) Reset() error {
	if err := s.ConfigRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.UserRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.ExamRepo.DeleteAllQuestions(); err != nil {
		return err
	}
	if err := s.ExamRepo.DeleteConfig(); err != nil {
		return err
	}
	return s.ExamRepo.DeleteAllResults()
}
