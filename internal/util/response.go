package util

import (
	"errors"
	"net/http"
	"ragbot_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReleaseMode 生产模式下 500 类错误只返回通用文案，启动时由 app 设置
var ReleaseMode bool

const GenericErrorDetail = "Something went wrong. Please try again later."

// Detail 错误响应体固定为 {"detail": <message>}
func Detail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"detail": message})
}

func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	Detail(c, http.StatusUnauthorized, message)
}

// RespondError 按错误分类映射状态码（见 errors.go）
func RespondError(c *gin.Context, err error) {
	var confErr *ConfigurationError
	var valErr *ValidationError
	var upErr *UpstreamError

	switch {
	case errors.As(err, &confErr):
		Detail(c, http.StatusBadRequest, confErr.Msg)
	case errors.As(err, &valErr):
		Detail(c, http.StatusBadRequest, valErr.Msg)
	case errors.Is(err, ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, ErrAdminExists):
		Detail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrQuestionNotFound), errors.Is(err, ErrImageNotFound):
		Detail(c, http.StatusNotFound, err.Error())
	case errors.As(err, &upErr):
		logger.Log.Error("upstream call failed", zap.String("op", upErr.Op), zap.Error(upErr.Err))
		if ReleaseMode {
			Detail(c, http.StatusInternalServerError, GenericErrorDetail)
		} else {
			Detail(c, http.StatusInternalServerError, err.Error())
		}
	default:
		logger.Log.Error("unexpected error", zap.Error(err))
		if ReleaseMode {
			Detail(c, http.StatusInternalServerError, GenericErrorDetail)
		} else {
			Detail(c, http.StatusInternalServerError, err.Error())
		}
	}
}
