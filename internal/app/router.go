package app

import (
	"ragbot_backend/internal/config"
	"ragbot_backend/internal/middleware"
	"ragbot_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/", c.health.Root)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret, repos.user)

	// 认证
	auth := router.Group("/auth")
	{
		auth.POST("/token", c.auth.Token)
		auth.POST("/setup-admin", c.auth.SetupAdmin)
		auth.GET("/check-setup", c.auth.CheckSetup)
	}

	// 管理（公开配置端点除外，其余需认证）
	admin := router.Group("/admin")
	{
		admin.GET("/public-config", c.admin.PublicConfig)

		authorized := admin.Group("")
		authorized.Use(authRequired)
		{
			authorized.GET("/config", c.admin.GetConfig)
			authorized.POST("/config", c.admin.UpdateConfig)
			authorized.POST("/upload", c.admin.Upload)
			authorized.GET("/files", c.admin.ListFiles)
			authorized.DELETE("/files/*key", c.admin.DeleteFile)
			authorized.POST("/sync", c.admin.Sync)
			authorized.POST("/reset", c.admin.Reset)
		}
	}

	// 对话代理（挂件直连，无需认证）
	chat := router.Group("/chat")
	{
		chat.POST("/", c.chat.Chat)
		chat.GET("/greeting", c.chat.Greeting)
	}

	// 测验
	exam := router.Group("/exam")
	{
		exam.GET("/images/:filename", c.exam.ServeImage)

		public := exam.Group("/public")
		{
			public.GET("/config", c.exam.PublicExamConfig)
			public.GET("/questions", c.exam.PublicQuestions)
			public.POST("/check-answer", c.exam.CheckAnswer)
			public.POST("/submit", c.exam.Submit)
		}

		authorized := exam.Group("")
		authorized.Use(authRequired)
		{
			authorized.GET("/questions", c.exam.ListQuestions)
			authorized.POST("/questions", c.exam.CreateQuestion)
			authorized.PUT("/questions/:id", c.exam.UpdateQuestion)
			authorized.DELETE("/questions/:id", c.exam.DeleteQuestion)
			authorized.POST("/questions/:id/upload-image", c.exam.UploadQuestionImage)
			authorized.GET("/config", c.exam.GetExamConfig)
			authorized.POST("/config", c.exam.UpdateExamConfig)
			authorized.GET("/results", c.exam.Results)
		}
	}
}
