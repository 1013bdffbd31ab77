package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"ragbot_backend/internal/config"
	"ragbot_backend/internal/middleware"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/service"
	"ragbot_backend/pkg/database"
	"ragbot_backend/pkg/logger"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testJWTSecret = "controller-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newTestRouter 按生产路由表搭一个最小可用的测试引擎
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     testJWTSecret,
			ExpireTime: time.Hour,
		},
		Exam: config.ExamConfig{ImageDir: t.TempDir()},
	}

	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewAppConfigRepository(db)
	examRepo := repository.NewExamRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg)
	configSvc := service.NewAppConfigService(configRepo, userRepo, examRepo)
	examSvc := service.NewExamService(examRepo, configRepo, service.NewWebhookService(), cfg.Exam.ImageDir)

	authCtrl := NewAuthController(authSvc)
	adminCtrl := NewAdminController(configSvc, configRepo)
	chatCtrl := NewChatController(configRepo)
	examCtrl := NewExamController(examSvc)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret, userRepo)

	router := gin.New()
	router.POST("/auth/token", authCtrl.Token)
	router.POST("/auth/setup-admin", authCtrl.SetupAdmin)
	router.GET("/auth/check-setup", authCtrl.CheckSetup)

	router.GET("/admin/public-config", adminCtrl.PublicConfig)
	admin := router.Group("/admin", authRequired)
	admin.GET("/config", adminCtrl.GetConfig)
	admin.POST("/config", adminCtrl.UpdateConfig)
	admin.DELETE("/files/*key", adminCtrl.DeleteFile)
	admin.POST("/reset", adminCtrl.Reset)

	router.GET("/chat/greeting", chatCtrl.Greeting)

	router.POST("/exam/public/submit", examCtrl.Submit)
	router.GET("/exam/public/questions", examCtrl.PublicQuestions)
	exam := router.Group("/exam", authRequired)
	exam.POST("/questions", examCtrl.CreateQuestion)
	exam.GET("/results", examCtrl.Results)

	return router, db
}

func doRequest(router *gin.Engine, method, path, contentType, body string, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	return doRequest(router, method, path, "application/json", body, token)
}

func jsonDecode(w *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func loginAdmin(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/auth/setup-admin", `{"username":"admin","password":"password123"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("setup-admin status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/auth/token",
		"application/x-www-form-urlencoded", "username=admin&password=password123", "")
	if w.Code != http.StatusOK {
		t.Fatalf("token status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := jsonDecode(w, &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("bad token response: %+v", resp)
	}
	return resp.AccessToken
}
