package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Root godoc
// @Summary 存活探针
// @Tags 健康检查
// @Produce json
// @Success 200 {object} object "message"
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "RAG Chatbot API is running"})
}
