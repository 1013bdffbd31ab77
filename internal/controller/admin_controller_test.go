package controller

import (
	"net/http"
	"ragbot_backend/pkg/logger"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigPatchRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	w := doJSON(router, http.MethodPost, "/admin/config",
		`{"bot_name":"Docs Bot","s3_bucket_name":"docs-bucket"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}

	// 第二次只改 greeting，之前的字段不能丢
	w = doJSON(router, http.MethodPost, "/admin/config",
		`{"greeting_message":"Hi there"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("second update status = %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/admin/config", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var cfg struct {
		BotName         string `json:"bot_name"`
		S3BucketName    string `json:"s3_bucket_name"`
		GreetingMessage string `json:"greeting_message"`
	}
	if err := jsonDecode(w, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.BotName != "Docs Bot" || cfg.S3BucketName != "docs-bucket" || cfg.GreetingMessage != "Hi there" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestConfigResponseHidesSecretKey(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	w := doJSON(router, http.MethodPost, "/admin/config",
		`{"aws_access_key_id":"AKIAEXAMPLE","aws_secret_access_key":"topsecret"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/admin/config", "", token)
	var raw map[string]interface{}
	if err := jsonDecode(w, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["aws_secret_access_key"]; ok {
		t.Error("aws_secret_access_key leaked into config response")
	}
	if raw["aws_access_key_id"] != "AKIAEXAMPLE" {
		t.Errorf("aws_access_key_id = %v", raw["aws_access_key_id"])
	}
}

func TestPublicConfigIsUnauthenticated(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/admin/public-config", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var raw map[string]interface{}
	if err := jsonDecode(w, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["bot_name"] != "My RAG Chatbot" {
		t.Errorf("bot_name = %v", raw["bot_name"])
	}
	if raw["primary_color"] != "#18181b" {
		t.Errorf("primary_color = %v", raw["primary_color"])
	}
	for _, forbidden := range []string{"aws_access_key_id", "aws_secret_access_key", "kb_id", "s3_bucket_name", "webhook_url"} {
		if _, ok := raw[forbidden]; ok {
			t.Errorf("public config leaked %s", forbidden)
		}
	}
}

func TestDeleteFileAcceptsSlashInKey(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	// 带斜杠的对象键（编码与未编码）必须命中处理器，
	// 存储未配置时得到 400 而不是路由层 404
	for _, path := range []string{
		"/admin/files/docs%2Freport.pdf",
		"/admin/files/docs/report.pdf",
	} {
		w := doJSON(router, http.MethodDelete, path, "", token)
		if w.Code != http.StatusBadRequest {
			t.Errorf("DELETE %s status = %d, want 400", path, w.Code)
			continue
		}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := jsonDecode(w, &detail); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if detail.Detail != "S3 Bucket Name not configured" {
			t.Errorf("DELETE %s detail = %q", path, detail.Detail)
		}
	}
}

func TestDeleteFileRejectsEmptyKey(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	w := doJSON(router, http.MethodDelete, "/admin/files/", "", token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := jsonDecode(w, &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Detail != "No file key provided" {
		t.Errorf("detail = %q", detail.Detail)
	}
}

func TestResetLogsOperator(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	core, observed := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	w := doJSON(router, http.MethodPost, "/admin/reset", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body = %s", w.Code, w.Body.String())
	}

	entries := observed.FilterMessage("application reset").All()
	if len(entries) != 1 {
		t.Fatalf("reset log entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["username"]; got != "admin" {
		t.Errorf("logged username = %v, want admin", got)
	}
}

func TestGreetingDefault(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/chat/greeting", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Greeting string `json:"greeting"`
	}
	if err := jsonDecode(w, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Greeting != "Hello! How can I help you today?" {
		t.Errorf("greeting = %q", resp.Greeting)
	}
}
