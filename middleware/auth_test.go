package middleware

import (
	"Backend/jwt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestExtractTokenFromHeader(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer abc123")

	assert.Equal(t, "abc123", ExtractToken(c))
}

func TestExtractTokenFromCookie(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(c))
}

// Authorization標頭優先於Cookie
func TestExtractTokenHeaderWinsOverCookie(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer header-token")
	c.Request.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})

	assert.Equal(t, "header-token", ExtractToken(c))
}

func TestExtractTokenMissing(t *testing.T) {
	c, _ := newTestContext(t)
	assert.Equal(t, "", ExtractToken(c))
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	token, err := jwt.GenerateAccessToken("alice", "user", testSecret)
	require.NoError(t, err)

	c, _ := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware(testSecret, zap.NewNop())(c)

	username, exists := c.Get("Username")
	require.True(t, exists)
	assert.Equal(t, "alice", username)
	role, _ := c.Get("Role")
	assert.Equal(t, "user", role)
	assert.False(t, c.IsAborted())
}

func TestAuthMiddlewareInvalidTokenLeavesAnonymous(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer garbage")

	AuthMiddleware(testSecret, zap.NewNop())(c)

	_, exists := c.Get("Username")
	assert.False(t, exists)
	//驗證失敗不中止請求，由CheckLoginMiddleware決定
	assert.False(t, c.IsAborted())
}

// Refresh Token不能當作登入身分
func TestAuthMiddlewareRejectsRefreshScope(t *testing.T) {
	token, err := jwt.GenerateRefreshToken("alice", "user", testSecret)
	require.NoError(t, err)

	c, _ := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware(testSecret, zap.NewNop())(c)

	_, exists := c.Get("Username")
	assert.False(t, exists)
}

func TestCheckLoginMiddleware(t *testing.T) {
	//未登入被擋下
	c, recorder := newTestContext(t)
	CheckLoginMiddleware()(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	//已登入放行
	c, _ = newTestContext(t)
	c.Set("Username", "alice")
	CheckLoginMiddleware()(c)
	assert.False(t, c.IsAborted())
}

func TestRefreshTokenMiddleware(t *testing.T) {
	//沒有Token
	c, recorder := newTestContext(t)
	RefreshTokenMiddleware(testSecret)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	//Access Token不能換發
	accessToken, err := jwt.GenerateAccessToken("alice", "user", testSecret)
	require.NoError(t, err)
	c, recorder = newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer "+accessToken)
	RefreshTokenMiddleware(testSecret)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	//Refresh Token放行並寫入身分
	refreshToken, err := jwt.GenerateRefreshToken("alice", "user", testSecret)
	require.NoError(t, err)
	c, _ = newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer "+refreshToken)
	RefreshTokenMiddleware(testSecret)(c)
	assert.False(t, c.IsAborted())
	username, _ := c.Get("Username")
	assert.Equal(t, "alice", username)
}
