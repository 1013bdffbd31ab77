package service

import (
	"context"
	"errors"
	"ragbot_backend/internal/model"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	bartypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"gorm.io/gorm"
)

// BedrockService 会话检索代理：把一条用户消息转发给 RetrieveAndGenerate，
// 返回生成文本、续聊会话 ID 和引用。凭证来自配置行，服务实例仅存活一次请求，
// 账号 ID 也只在该实例内缓存。
type BedrockService struct {
	config    *model.AppConfig
	accountID string
}

func NewBedrockService(configRepo *repository.AppConfigRepository) (*BedrockService, error) {
	cfg, err := configRepo.Find()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &BedrockService{config: cfg}, nil
}

type Citation struct {
	GeneratedResponsePart CitationText         `json:"generated_response_part"`
	RetrievedReferences   []RetrievedReference `json:"retrieved_references"`
}

type CitationText struct {
	Text string `json:"text"`
}

type RetrievedReference struct {
	Content  string `json:"content"`
	Location string `json:"location,omitempty"`
}

type ChatResult struct {
	Response  string     `json:"response"`
	SessionID string     `json:"session_id"`
	Citations []Citation `json:"citations"`
}

func (s *BedrockService) region() string {
	if s.config != nil && s.config.AWSRegion != "" {
		return s.config.AWSRegion
	}
	return model.DefaultAWSRegion
}

func (s *BedrockService) credentials() (aws.CredentialsProvider, error) {
	if s.config == nil || s.config.AWSAccessKeyID == "" {
		return nil, util.NewConfigurationError("AWS credentials")
	}
	return awscreds.NewStaticCredentialsProvider(s.config.AWSAccessKeyID, s.config.AWSSecretAccessKey, ""), nil
}

// resolveAccountID 优先取配置行，缺失时向 STS 查询；只在本实例内缓存
func (s *BedrockService) resolveAccountID(ctx context.Context) (string, error) {
	if s.accountID != "" {
		return s.accountID, nil
	}

	if s.config != nil && s.config.AWSAccountID != "" {
		s.accountID = s.config.AWSAccountID
		return s.accountID, nil
	}

	creds, err := s.credentials()
	if err != nil {
		return "", err
	}

	client := sts.New(sts.Options{
		Region:      s.region(),
		Credentials: creds,
	})

	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", &util.UpstreamError{Op: "get caller identity", Err: err}
	}

	s.accountID = aws.ToString(identity.Account)
	return s.accountID, nil
}

func (s *BedrockService) Chat(ctx context.Context, message, sessionID string) (*ChatResult, error) {
	creds, err := s.credentials()
	if err != nil {
		return nil, err
	}
	if s.config.KBID == "" {
		return nil, util.NewConfigurationError("Knowledge Base ID")
	}

	accountID, err := s.resolveAccountID(ctx)
	if err != nil {
		return nil, err
	}

	modelARN := BuildModelARN(s.config.ModelARN, s.region(), accountID)

	client := bedrockagentruntime.New(bedrockagentruntime.Options{
		Region:      s.region(),
		Credentials: creds,
	})

	input := &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &bartypes.RetrieveAndGenerateInput{
			Text: aws.String(message),
		},
		RetrieveAndGenerateConfiguration: &bartypes.RetrieveAndGenerateConfiguration{
			Type: bartypes.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &bartypes.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(s.config.KBID),
				ModelArn:        aws.String(modelARN),
			},
		},
	}

	// 不带会话 ID 时整个字段省略，由服务端开新会话
	if sessionID != "" {
		input.SessionId = aws.String(sessionID)
	}

	out, err := client.RetrieveAndGenerate(ctx, input)
	if err != nil {
		return nil, &util.UpstreamError{Op: "retrieve and generate", Err: err}
	}

	result := &ChatResult{
		SessionID: aws.ToString(out.SessionId),
		Citations: convertCitations(out.Citations),
	}
	if out.Output != nil {
		result.Response = aws.ToString(out.Output.Text)
	}
	return result, nil
}

// Greeting 配置的欢迎语，缺省时用固定文案；无失败路径
func (s *BedrockService) Greeting() string {
	if s.config != nil && s.config.GreetingMessage != "" {
		return s.config.GreetingMessage
	}
	return model.DefaultGreeting
}

func convertCitations(citations []bartypes.Citation) []Citation {
	result := make([]Citation, 0, len(citations))
	for _, c := range citations {
		converted := Citation{
			RetrievedReferences: make([]RetrievedReference, 0, len(c.RetrievedReferences)),
		}

		if c.GeneratedResponsePart != nil && c.GeneratedResponsePart.TextResponsePart != nil {
			converted.GeneratedResponsePart.Text = aws.ToString(c.GeneratedResponsePart.TextResponsePart.Text)
		}

		for _, ref := range c.RetrievedReferences {
			r := RetrievedReference{}
			if ref.Content != nil {
				r.Content = aws.ToString(ref.Content.Text)
			}
			if ref.Location != nil && ref.Location.S3Location != nil {
				r.Location = aws.ToString(ref.Location.S3Location.Uri)
			}
			converted.RetrievedReferences = append(converted.RetrievedReferences, r)
		}

		result = append(result, converted)
	}
	return result
}
