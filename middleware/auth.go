package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"Lotus/pkg/context"
	"Lotus/pkg/jwt"
	"Lotus/pkg/log"
	"Lotus/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TokenTypeAccess, parts[1])
		if err != nil {
			log.L.Debug("reject token", zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "登录已失效")
			return
		}
		c.Set(context.CtxUserID, claims.UserID)

		c.Next()
	}
}

// AdminAuth 管理接口使用固定令牌；未配置令牌时管理接口整体关闭
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Abort(c, http.StatusForbidden, "管理接口未开启")
			return
		}
		got := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Abort(c, http.StatusForbidden, "无权访问")
			return
		}
		c.Next()
	}
}
