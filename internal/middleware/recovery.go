package middleware

import (
	"fmt"
	"net/http"
	"ragbot_backend/internal/util"
	"ragbot_backend/pkg/logger"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery panic 兜底。生产模式只返回通用文案，
// 调试模式附带错误详情和调用栈方便排查。
func Recovery(isRelease bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Log.Error("panic recovered",
					zap.Any("error", r),
					zap.String("stack", stack))

				if isRelease {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"detail": util.GenericErrorDetail,
					})
				} else {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"detail":    fmt.Sprintf("%v", r),
						"traceback": stack,
					})
				}
			}
		}()
		c.Next()
	}
}
