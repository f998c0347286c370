package middleware

import (
	"Backend/jwt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 檢查請求是否帶有合法的Refresh Token，成功則將身分寫入Context
func RefreshTokenMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Missing refresh token",
			})
			c.Abort()
			return
		}

		claims, err := jwt.VerifyToken(token, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired refresh token",
			})
			c.Abort()
			return
		}

		//Access Token不能拿來換新Token
		if claims.Scope != jwt.ScopeRefresh {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Refresh token required",
			})
			c.Abort()
			return
		}

		c.Set("Username", claims.Username)
		c.Set("Role", claims.Role)
		c.Next()
	}
}
