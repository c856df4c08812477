package middleware

import (
	"charity-donation-backend/internal/errors"
	"charity-donation-backend/internal/service"
	"charity-donation-backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 解析令牌并将调用方账户地址写入上下文
func AuthMiddleware(accountService *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "无效的认证格式"))
			c.Abort()
			return
		}

		if accountService.IsTokenBlacklisted(parts[1]) {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "令牌已被撤销"))
			c.Abort()
			return
		}

		address, err := util.ValidateToken(parts[1])
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "无效或过期的令牌", err))
			c.Abort()
			return
		}

		util.Logger.Debug("认证通过",
			zap.String("address", address),
			zap.String("path", c.Request.URL.Path))

		c.Set("caller_address", address)
		c.Set("token", parts[1])
		c.Next()
	}
}

// CallerAddress 从上下文中取出已认证的账户地址
func CallerAddress(c *gin.Context) string {
	address, _ := c.Get("caller_address")
	if s, ok := address.(string); ok {
		return s
	}
	return ""
}
