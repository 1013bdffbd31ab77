// @title RAG Chatbot 后端 API
// @version 1.0
// @description 可嵌入网页挂件的知识库问答后端，含管理配置、文档管理与测验模块。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"ragbot_backend/internal/app"
	"ragbot_backend/internal/config"
	"ragbot_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
