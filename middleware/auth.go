package middleware

import (
	"Backend/jwt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 登入Cookie名稱，與前端共用
const AuthCookieName = "authToken"

// 解析Bearer Token或Cookie，驗證成功則將身分寫入Context
// 驗證失敗不中止請求，由CheckLoginMiddleware決定是否擋下
func AuthMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwt.VerifyToken(token, secret)
		if err != nil {
			logger.Debug("無法驗證Token", zap.Error(err))
			c.Next()
			return
		}

		//Refresh Token不能當作登入身分使用
		if claims.Scope != jwt.ScopeAccess {
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("Username", claims.Username)
		c.Set("Role", claims.Role)
		c.Next()
	}
}

// 依序從Authorization標頭與Cookie取出Token
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}

	return ""
}
