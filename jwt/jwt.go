package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ScopeAccess  = "access"
	ScopeRefresh = "refresh"

	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token is expired")
	ErrInvalidToken = errors.New("token is invalid")
)

// 從Token解析出的身分資訊
type Claims struct {
	Username  string
	Role      string
	Scope     string
	ExpiresAt time.Time
}

// 生成JWT Access Token，效期24小時
func GenerateAccessToken(username string, role string, secret []byte) (string, error) {
	return generateToken(username, role, ScopeAccess, AccessTokenTTL, secret)
}

// 生成JWT Refresh Token，效期30天
func GenerateRefreshToken(username string, role string, secret []byte) (string, error) {
	return generateToken(username, role, ScopeRefresh, RefreshTokenTTL, secret)
}

func generateToken(username string, role string, scope string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   username,
		"role":  role,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// 驗證JWT Token並回傳身分資訊
func VerifyToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claimsFromToken(token)
}

// 驗證簽章但不檢查效期，供isTokenExpired查詢Token過期時間使用
func DecodeToken(tokenString string, secret []byte) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claimsFromToken(token)
}

func claimsFromToken(token *jwt.Token) (*Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	username, ok := mapClaims["sub"].(string)
	if !ok || username == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{Username: username}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if scope, ok := mapClaims["scope"].(string); ok {
		claims.Scope = scope
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}
