package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"ragbot_backend/internal/model"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/util"
	"ragbot_backend/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxResultHistory = 100

type ExamService struct {
	Repo       *repository.ExamRepository
	ConfigRepo *repository.AppConfigRepository
	Webhook    *WebhookService
	ImageDir   string
}

func NewExamService(repo *repository.ExamRepository, configRepo *repository.AppConfigRepository, webhook *WebhookService, imageDir string) *ExamService {
	return &ExamService{
		Repo:       repo,
		ConfigRepo: configRepo,
		Webhook:    webhook,
		ImageDir:   imageDir,
	}
}

// ---- 题目管理 ----

type QuestionCreate struct {
	QuestionText     string `json:"question_text" binding:"required"`
	QuestionImageURL string `json:"question_image_url"`
	OptionA          string `json:"option_a" binding:"required"`
	OptionB          string `json:"option_b" binding:"required"`
	OptionC          string `json:"option_c"`
	OptionD          string `json:"option_d"`
	CorrectAnswer    string `json:"correct_answer" binding:"required"`
	Explanation      string `json:"explanation"`
	OrderIndex       int    `json:"order_index"`
	IsActive         *bool  `json:"is_active"`
}

type QuestionPatch struct {
	QuestionText     *string `json:"question_text"`
	QuestionImageURL *string `json:"question_image_url"`
	OptionA          *string `json:"option_a"`
	OptionB          *string `json:"option_b"`
	OptionC          *string `json:"option_c"`
	OptionD          *string `json:"option_d"`
	CorrectAnswer    *string `json:"correct_answer"`
	Explanation      *string `json:"explanation"`
	OrderIndex       *int    `json:"order_index"`
	IsActive         *bool   `json:"is_active"`
}

func (s *ExamService) ListQuestions() ([]model.ExamQuestion, error) {
	return s.Repo.ListQuestions()
}

func (s *ExamService) CreateQuestion(req *QuestionCreate) (*model.ExamQuestion, error) {
	q := &model.ExamQuestion{
		QuestionText:     req.QuestionText,
		QuestionImageURL: req.QuestionImageURL,
		OptionA:          req.OptionA,
		OptionB:          req.OptionB,
		OptionC:          req.OptionC,
		OptionD:          req.OptionD,
		CorrectAnswer:    req.CorrectAnswer,
		Explanation:      req.Explanation,
		OrderIndex:       req.OrderIndex,
		IsActive:         req.IsActive == nil || *req.IsActive,
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) findQuestion(id uint) (*model.ExamQuestion, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *ExamService) UpdateQuestion(id uint, patch *QuestionPatch) (*model.ExamQuestion, error) {
	q, err := s.findQuestion(id)
	if err != nil {
		return nil, err
	}

	if patch.QuestionText != nil {
		q.QuestionText = *patch.QuestionText
	}
	if patch.QuestionImageURL != nil {
		q.QuestionImageURL = *patch.QuestionImageURL
	}
	if patch.OptionA != nil {
		q.OptionA = *patch.OptionA
	}
	if patch.OptionB != nil {
		q.OptionB = *patch.OptionB
	}
	if patch.OptionC != nil {
		q.OptionC = *patch.OptionC
	}
	if patch.OptionD != nil {
		q.OptionD = *patch.OptionD
	}
	if patch.CorrectAnswer != nil {
		q.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.Explanation != nil {
		q.Explanation = *patch.Explanation
	}
	if patch.OrderIndex != nil {
		q.OrderIndex = *patch.OrderIndex
	}
	if patch.IsActive != nil {
		q.IsActive = *patch.IsActive
	}

	if err := s.Repo.SaveQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) DeleteQuestion(id uint) error {
	q, err := s.findQuestion(id)
	if err != nil {
		return err
	}
	return s.Repo.DeleteQuestion(q)
}

// ---- 题目配图 ----

// SaveQuestionImage 按内容嗅探校验图片，落盘为 <题目ID>_<随机hex8>.<扩展名>
func (s *ExamService) SaveQuestionImage(id uint, fh *multipart.FileHeader) (string, error) {
	q, err := s.findQuestion(id)
	if err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	if _, err := util.ValidateMimeType(bytes.NewReader(content), []string{"image/"}); err != nil {
		return "", &util.ValidationError{Msg: "File must be an image"}
	}

	ext := "png"
	if i := strings.LastIndex(fh.Filename, "."); i >= 0 && i < len(fh.Filename)-1 {
		ext = fh.Filename[i+1:]
	}

	randomHex := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	filename := fmt.Sprintf("%d_%s.%s", id, randomHex, ext)

	if err := os.MkdirAll(s.ImageDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.ImageDir, filename), content, 0644); err != nil {
		return "", err
	}

	q.QuestionImageURL = "/exam/images/" + filename
	if err := s.Repo.SaveQuestion(q); err != nil {
		return "", err
	}
	return q.QuestionImageURL, nil
}

// ImagePath 仅允许访问图片目录下的裸文件名
func (s *ExamService) ImagePath(filename string) (string, error) {
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "\\") || strings.Contains(filename, "..") {
		return "", util.ErrImageNotFound
	}

	path := filepath.Join(s.ImageDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", util.ErrImageNotFound
	}
	return path, nil
}

// ---- 测验配置 ----

type ExamConfigPatch struct {
	PassingScore       *float64 `json:"passing_score"`
	ExamTitle          *string  `json:"exam_title"`
	ExamDescription    *string  `json:"exam_description"`
	ShowCorrectAnswers *bool    `json:"show_correct_answers"`
	ShuffleQuestions   *bool    `json:"shuffle_questions"`
}

type PublicExamConfig struct {
	ExamTitle       string `json:"exam_title"`
	ExamDescription string `json:"exam_description"`
}

func (s *ExamService) GetConfig() (*model.ExamConfig, error) {
	return s.Repo.GetOrCreateConfig()
}

func (s *ExamService) UpdateConfig(patch *ExamConfigPatch) (*model.ExamConfig, error) {
	cfg, err := s.Repo.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}

	if patch.PassingScore != nil {
		cfg.PassingScore = *patch.PassingScore
	}
	if patch.ExamTitle != nil {
		cfg.ExamTitle = *patch.ExamTitle
	}
	if patch.ExamDescription != nil {
		cfg.ExamDescription = *patch.ExamDescription
	}
	if patch.ShowCorrectAnswers != nil {
		cfg.ShowCorrectAnswers = *patch.ShowCorrectAnswers
	}
	if patch.ShuffleQuestions != nil {
		cfg.ShuffleQuestions = *patch.ShuffleQuestions
	}

	if err := s.Repo.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *ExamService) GetPublicConfig() (*PublicExamConfig, error) {
	cfg, err := s.Repo.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}
	return &PublicExamConfig{
		ExamTitle:       cfg.ExamTitle,
		ExamDescription: cfg.ExamDescription,
	}, nil
}

// ---- 公开答题 ----

type PublicQuestion struct {
	ID               uint   `json:"id"`
	QuestionText     string `json:"question_text"`
	QuestionImageURL string `json:"question_image_url"`
	OptionA          string `json:"option_a"`
	OptionB          string `json:"option_b"`
	OptionC          string `json:"option_c"`
	OptionD          string `json:"option_d"`
}

// PublicQuestions 只返回启用的题目，并剥离答案和解析；
// 开启乱序时每次调用独立洗牌，顺序不持久化
func (s *ExamService) PublicQuestions() ([]PublicQuestion, error) {
	cfg, err := s.Repo.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}

	questions, err := s.Repo.ListActiveQuestions()
	if err != nil {
		return nil, err
	}

	result := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		result[i] = PublicQuestion{
			ID:               q.ID,
			QuestionText:     q.QuestionText,
			QuestionImageURL: q.QuestionImageURL,
			OptionA:          q.OptionA,
			OptionB:          q.OptionB,
			OptionC:          q.OptionC,
			OptionD:          q.OptionD,
		}
	}

	if cfg.ShuffleQuestions {
		rand.Shuffle(len(result), func(i, j int) {
			result[i], result[j] = result[j], result[i]
		})
	}

	return result, nil
}

type AnswerSubmission struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer" binding:"required"`
}

type AnswerResult struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer *string `json:"correct_answer"`
	Explanation   *string `json:"explanation"`
}

// CheckAnswer 选项字母大小写不敏感；答案与解析只在配置允许时披露
func (s *ExamService) CheckAnswer(questionID uint, selected string) (*AnswerResult, error) {
	q, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.Repo.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		IsCorrect: strings.EqualFold(q.CorrectAnswer, selected),
	}
	if cfg.ShowCorrectAnswers {
		result.CorrectAnswer = &q.CorrectAnswer
		if q.Explanation != "" {
			result.Explanation = &q.Explanation
		}
	}
	return result, nil
}

// ---- 整卷提交 ----

type ExamSubmission struct {
	SessionID        string                 `json:"session_id" binding:"required"`
	ExternalUserID   string                 `json:"external_user_id"`
	ExternalUserName string                 `json:"external_user_name"`
	WebhookURL       string                 `json:"webhook_url"`
	CustomData       map[string]interface{} `json:"custom_data"`
	Answers          []AnswerSubmission     `json:"answers" binding:"required"`
}

type SubmittedAnswer struct {
	QuestionID     uint    `json:"question_id"`
	SelectedAnswer string  `json:"selected_answer"`
	IsCorrect      bool    `json:"is_correct"`
	CorrectAnswer  *string `json:"correct_answer"`
	Explanation    *string `json:"explanation"`
}

type SubmissionResult struct {
	TotalQuestions  int               `json:"total_questions"`
	CorrectAnswers  int               `json:"correct_answers"`
	ScorePercentage float64           `json:"score_percentage"`
	Passed          bool              `json:"passed"`
	Results         []SubmittedAnswer `json:"results"`
}

// Submit 计分并持久化一条成绩；引用不存在题目的作答直接跳过，
// 不计入总数。webhook 发送失败只记录，提交本身照常成功。
func (s *ExamService) Submit(ctx context.Context, sub *ExamSubmission) (*SubmissionResult, error) {
	cfg, err := s.Repo.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}

	details := []SubmittedAnswer{}
	total := 0
	correct := 0

	for _, answer := range sub.Answers {
		q, err := s.Repo.FindQuestionByID(answer.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		total++
		isCorrect := strings.EqualFold(q.CorrectAnswer, answer.SelectedAnswer)
		if isCorrect {
			correct++
		}

		detail := SubmittedAnswer{
			QuestionID:     answer.QuestionID,
			SelectedAnswer: answer.SelectedAnswer,
			IsCorrect:      isCorrect,
		}
		if cfg.ShowCorrectAnswers {
			detail.CorrectAnswer = &q.CorrectAnswer
			if q.Explanation != "" {
				detail.Explanation = &q.Explanation
			}
		}
		details = append(details, detail)
	}

	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	passed := score >= cfg.PassingScore

	webhookURL := sub.WebhookURL
	if webhookURL == "" {
		// 提交未带 webhook 时退回全局配置里的地址
		if appCfg, err := s.ConfigRepo.Find(); err == nil {
			webhookURL = appCfg.WebhookURL
		}
	}

	record := &model.ExamResult{
		ExternalUserID:   sub.ExternalUserID,
		ExternalUserName: sub.ExternalUserName,
		SessionID:        sub.SessionID,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		ScorePercentage:  score,
		Passed:           passed,
		WebhookURL:       webhookURL,
		CompletedAt:      time.Now(),
	}
	if err := s.Repo.CreateResult(record); err != nil {
		return nil, err
	}

	if webhookURL != "" {
		payload := &ExamCompletedPayload{
			Event:            "exam_completed",
			ExternalUserID:   sub.ExternalUserID,
			ExternalUserName: sub.ExternalUserName,
			SessionID:        sub.SessionID,
			TotalQuestions:   total,
			CorrectAnswers:   correct,
			ScorePercentage:  score,
			Passed:           passed,
			PassingScore:     cfg.PassingScore,
			CustomData:       sub.CustomData,
		}
		if err := s.Webhook.Notify(ctx, webhookURL, payload); err != nil {
			logger.Log.Warn("failed to send exam webhook",
				zap.String("url", webhookURL),
				zap.Error(err))
		} else if err := s.Repo.MarkWebhookSent(record.ID); err != nil {
			logger.Log.Warn("failed to mark webhook sent", zap.Error(err))
		}
	}

	return &SubmissionResult{
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		ScorePercentage: score,
		Passed:          passed,
		Results:         details,
	}, nil
}

func (s *ExamService) RecentResults() ([]model.ExamResult, error) {
	return s.Repo.ListRecentResults(maxResultHistory)
}
