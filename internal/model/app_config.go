package model

// AppConfig 全局配置单例行（云凭证、知识库、品牌化、功能开关）
type AppConfig struct {
	BaseModel
	AWSAccessKeyID     string `gorm:"size:255" json:"aws_access_key_id"`
	AWSSecretAccessKey string `gorm:"size:255" json:"-"` // 永不返回给前端
	AWSAccountID       string `gorm:"size:64" json:"aws_account_id"`
	AWSRegion          string `gorm:"size:64" json:"aws_region"`
	S3BucketName       string `gorm:"size:255" json:"s3_bucket_name"`
	KBID               string `gorm:"size:64;column:kb_id" json:"kb_id"`
	DataSourceID       string `gorm:"size:64" json:"data_source_id"`
	BotName            string `gorm:"size:255" json:"bot_name"`
	GreetingMessage    string `gorm:"type:text" json:"greeting_message"`
	ModelARN           string `gorm:"size:512;column:model_arn" json:"model_arn"`
	EnableExamMode     bool   `gorm:"default:false" json:"enable_exam_mode"`
	WebhookURL         string `gorm:"size:512" json:"webhook_url"`

	// 聊天挂件配色
	PrimaryColor             string `gorm:"size:16" json:"primary_color"`
	PrimaryForeground        string `gorm:"size:16" json:"primary_foreground"`
	ChatBubbleUser           string `gorm:"size:16" json:"chat_bubble_user"`
	ChatBubbleUserForeground string `gorm:"size:16" json:"chat_bubble_user_foreground"`
	ChatBubbleBot            string `gorm:"size:16" json:"chat_bubble_bot"`
	ChatBubbleBotForeground  string `gorm:"size:16" json:"chat_bubble_bot_foreground"`
}

func (AppConfig) TableName() string {
	return "app_configs"
}

const (
	DefaultAWSRegion    = "us-east-1"
	DefaultBotName      = "My RAG Chatbot"
	DefaultGreeting     = "Hello! How can I help you today?"
	DefaultModelARN     = "arn:aws:bedrock:us-east-1::inference-profile/global.anthropic.claude-haiku-4-5-20251001-v1:0"
	DefaultPrimaryColor = "#18181b"
	DefaultPrimaryFg    = "#fafafa"
	DefaultBubbleUser   = "#18181b"
	DefaultBubbleUserFg = "#fafafa"
	DefaultBubbleBot    = "#f4f4f5"
	DefaultBubbleBotFg  = "#18181b"
)

// DefaultAppConfig 空库时的取值，也是懒创建单例行的初始值
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		AWSRegion:                DefaultAWSRegion,
		BotName:                  DefaultBotName,
		GreetingMessage:          DefaultGreeting,
		ModelARN:                 DefaultModelARN,
		PrimaryColor:             DefaultPrimaryColor,
		PrimaryForeground:        DefaultPrimaryFg,
		ChatBubbleUser:           DefaultBubbleUser,
		ChatBubbleUserForeground: DefaultBubbleUserFg,
		ChatBubbleBot:            DefaultBubbleBot,
		ChatBubbleBotForeground:  DefaultBubbleBotFg,
	}
}
