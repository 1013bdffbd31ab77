package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"ragbot_backend/pkg/monitoring"
	"time"
)

const webhookTimeout = 10 * time.Second

// WebhookService 测验结果外发通知。尽力而为：失败只记录，绝不影响提交流程。
type WebhookService struct {
	client *http.Client
}

func NewWebhookService() *WebhookService {
	return &WebhookService{
		client: &http.Client{Timeout: webhookTimeout},
	}
}

type ExamCompletedPayload struct {
	Event            string                 `json:"event"`
	ExternalUserID   string                 `json:"external_user_id"`
	ExternalUserName string                 `json:"external_user_name"`
	SessionID        string                 `json:"session_id"`
	TotalQuestions   int                    `json:"total_questions"`
	CorrectAnswers   int                    `json:"correct_answers"`
	ScorePercentage  float64                `json:"score_percentage"`
	Passed           bool                   `json:"passed"`
	PassingScore     float64                `json:"passing_score"`
	CustomData       map[string]interface{} `json:"custom_data"`
}

// Notify 单次 POST，固定超时，不重试，无签名
func (s *WebhookService) Notify(ctx context.Context, url string, payload *ExamCompletedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.WebhookDeliveries.WithLabelValues("failure").Inc()
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.WebhookDeliveries.WithLabelValues("failure").Inc()
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	monitoring.WebhookDeliveries.WithLabelValues("success").Inc()
	return nil
}
