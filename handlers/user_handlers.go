package handlers

import (
	"Backend/jwt"
	"Backend/middleware"
	"Backend/models"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 註冊帳號，使用者名稱重複時拒絕(先查後寫，store層沒有唯一限制)
func RegisterHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  errs,
		})
		return
	}

	ctx := c.Request.Context()

	err := db.Collection(usersCollection).FindOne(ctx, bson.M{"username": req.Username}).Err()
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "User already exists",
		})
		return
	}
	if err != mongo.ErrNoDocuments {
		internalError(c, logger, "無法檢查使用者名稱", err)
		return
	}

	//將密碼Hash後儲存，絕不儲存明文
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, logger, "無法生成Hashed密碼", err)
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	if _, err := db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		internalError(c, logger, "無法儲存使用者資料", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

// 登入帳號，成功時回傳Access/Refresh Token並寫入Cookie
func LoginHandler(c *gin.Context, db *mongo.Database, secret []byte, logger *zap.Logger) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	var user models.User
	err := db.Collection(usersCollection).FindOne(c.Request.Context(), bson.M{"username": req.Username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Invalid credentials",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取使用者資料", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Invalid credentials",
		})
		return
	}

	accessToken, err := jwt.GenerateAccessToken(user.Username, user.Role, secret)
	if err != nil {
		internalError(c, logger, "無法生成Access Token", err)
		return
	}
	refreshToken, err := jwt.GenerateRefreshToken(user.Username, user.Role, secret)
	if err != nil {
		internalError(c, logger, "無法生成Refresh Token", err)
		return
	}

	//Access Token另外寫入HttpOnly Cookie供瀏覽器使用
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookieName, accessToken, int(jwt.AccessTokenTTL.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"username":      user.Username,
		"role":          user.Role,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// 回傳目前登入的身分，供前端確認Token是否有效
func ProtectedHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"logged_in_as": c.GetString("Username"),
	})
}

// 以Refresh Token換發新的Access Token
func RefreshHandler(c *gin.Context, secret []byte, logger *zap.Logger) {
	username := c.GetString("Username")
	role := c.GetString("Role")

	accessToken, err := jwt.GenerateAccessToken(username, role, secret)
	if err != nil {
		internalError(c, logger, "無法生成Access Token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
	})
}

// 登出:清除Cookie，Token本身不撤銷，到期自然失效
func LogoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// 檢查Authorization標頭內的Token是否過期，獨立於Cookie判斷
func IsTokenExpiredHandler(c *gin.Context, secret []byte) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Authorization header is missing",
		})
		return
	}

	parts := strings.Fields(authHeader)
	if len(parts) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Bearer token is malformed",
		})
		return
	}

	claims, err := jwt.DecodeToken(parts[1], secret)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Token verification failed",
		})
		return
	}

	if claims.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Token is expired",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token is not expired",
	})
}
