package routers

import (
	"Backend/config"
	"Backend/jwt"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 僅驗證路由與授權中間件的行為，不觸及資料庫的端點可用nil db測試
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Server: config.ServerConfig{Port: "3000"},
		JWT:    config.JWTConfig{Secret: "test-secret"},
	}
	router := SetupRouters(nil, cfg, zap.NewNop())
	require.NotNil(t, router)
	return router
}

func performRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(recorder, request)
	return recorder
}

// 需要登入的端點在沒有Token時一律回401，不會碰到資料庫
func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/65b000000000000000000000"},
		{http.MethodDelete, "/api/products/65b000000000000000000000"},
		{http.MethodDelete, "/api/categories/65b000000000000000000000"},
		{http.MethodPost, "/api/blogs"},
		{http.MethodPut, "/api/blogs/65b000000000000000000000"},
		{http.MethodDelete, "/api/blogs/65b000000000000000000000"},
		{http.MethodGet, "/api/protected"},
		{http.MethodPost, "/api/logout"},
		{http.MethodGet, "/api/isTokenExpired"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			recorder := performRequest(router, tc.method, tc.path, "")
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	router := newTestRouter(t)

	token, err := jwt.GenerateAccessToken("alice", "user", []byte("test-secret"))
	require.NoError(t, err)

	recorder := performRequest(router, http.MethodGet, "/api/protected", token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["logged_in_as"])
}

func TestRefreshRouteRequiresRefreshToken(t *testing.T) {
	router := newTestRouter(t)

	//沒有Token
	recorder := performRequest(router, http.MethodGet, "/api/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	//Access Token不能換發
	accessToken, err := jwt.GenerateAccessToken("alice", "user", []byte("test-secret"))
	require.NoError(t, err)
	recorder = performRequest(router, http.MethodGet, "/api/refresh", accessToken)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	//Refresh Token換發成功
	refreshToken, err := jwt.GenerateRefreshToken("alice", "user", []byte("test-secret"))
	require.NoError(t, err)
	recorder = performRequest(router, http.MethodGet, "/api/refresh", refreshToken)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	claims, err := jwt.VerifyToken(body["access_token"], []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, jwt.ScopeAccess, claims.Scope)
}

func TestIsTokenExpiredRoute(t *testing.T) {
	router := newTestRouter(t)

	token, err := jwt.GenerateAccessToken("alice", "user", []byte("test-secret"))
	require.NoError(t, err)

	recorder := performRequest(router, http.MethodGet, "/api/isTokenExpired", token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Token is not expired", body["message"])
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newTestRouter(t)

	token, err := jwt.GenerateAccessToken("alice", "user", []byte("test-secret"))
	require.NoError(t, err)

	recorder := performRequest(router, http.MethodPost, "/api/logout", token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "authToken", cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestOptionsCatchAll(t *testing.T) {
	router := newTestRouter(t)

	recorder := performRequest(router, http.MethodOptions, "/api/anything", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}
