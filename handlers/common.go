package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
	blogsCollection      = "blogs"
	usersCollection      = "users"
)

// 記錄詳細錯誤並回傳一般性訊息，不將資料庫錯誤洩漏給客戶端
func internalError(c *gin.Context, logger *zap.Logger, action string, err error) {
	logger.Error(action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
