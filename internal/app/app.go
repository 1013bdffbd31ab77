package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"ragbot_backend/internal/config"
	"ragbot_backend/internal/controller"
	"ragbot_backend/internal/middleware"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/service"
	"ragbot_backend/internal/util"
	"ragbot_backend/pkg/database"
	"ragbot_backend/pkg/logger"
	"ragbot_backend/pkg/monitoring"
	"ragbot_backend/pkg/security"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
}

type repositories struct {
	user      *repository.UserRepository
	appConfig *repository.AppConfigRepository
	exam      *repository.ExamRepository
}

type services struct {
	auth      *service.AuthService
	appConfig *service.AppConfigService
	webhook   *service.WebhookService
	exam      *service.ExamService
}

type controllers struct {
	auth   *controller.AuthController
	admin  *controller.AdminController
	chat   *controller.ChatController
	exam   *controller.ExamController
	health *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		appConfig: repository.NewAppConfigRepository(db),
		exam:      repository.NewExamRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.appConfig = service.NewAppConfigService(repos.appConfig, repos.user, repos.exam)
	s.webhook = service.NewWebhookService()
	s.exam = service.NewExamService(repos.exam, repos.appConfig, s.webhook, cfg.Exam.ImageDir)
	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		admin:  controller.NewAdminController(s.appConfig, repos.appConfig),
		chat:   controller.NewChatController(repos.appConfig),
		exam:   controller.NewExamController(s.exam),
		health: controller.NewHealthController(),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery(cfg.Server.IsRelease()))
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	util.ReleaseMode = cfg.Server.IsRelease()
	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos)

	monitoring.Init()

	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
