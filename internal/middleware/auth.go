package middleware

import (
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 bearer 令牌；令牌里的用户被重置后立即失效
func AuthMiddleware(secret string, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			util.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		if _, err := userRepo.FindByUsername(claims.Username); err != nil {
			util.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
