package controller

import (
	"net/http"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/service"
	"ragbot_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ConfigRepo *repository.AppConfigRepository
}

func NewChatController(configRepo *repository.AppConfigRepository) *ChatController {
	return &ChatController{ConfigRepo: configRepo}
}

// ChatRequest 一条用户消息；session_id 为空时由上游开新会话
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// Chat godoc
// @Summary 知识库检索问答
// @Description 把消息转发给检索生成接口，返回回答、会话 ID 和引用
// @Tags 对话
// @Accept json
// @Produce json
// @Param body body ChatRequest true "用户消息"
// @Success 200 {object} service.ChatResult
// @Failure 400 {object} object "凭证或知识库未配置"
// @Router /chat/ [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	bedrock, err := service.NewBedrockService(c.ConfigRepo)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	result, err := bedrock.Chat(ctx.Request.Context(), req.Message, req.SessionID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Greeting godoc
// @Summary 获取欢迎语
// @Description 返回配置的欢迎语，未配置时用默认文案
// @Tags 对话
// @Produce json
// @Success 200 {object} object "greeting"
// @Router /chat/greeting [get]
func (c *ChatController) Greeting(ctx *gin.Context) {
	bedrock, err := service.NewBedrockService(c.ConfigRepo)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"greeting": bedrock.Greeting()})
}
