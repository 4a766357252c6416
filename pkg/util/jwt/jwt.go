package jwt

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName 会话 Cookie 名称
	CookieName = "token"
	// DefaultExpiry Token 默认有效期 7 天
	DefaultExpiry = 7 * 24 * time.Hour

	issuer = "pet_adoption"
)

// ErrNotInitialized 未调用 Init 就签发 Token
var ErrNotInitialized = errors.New("jwt: secret not initialized")

// Payload 会话主体（Principal）
type Payload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Claims 自定义 JWT 声明
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var (
	mu            sync.RWMutex
	secret        []byte
	expiry        = DefaultExpiry
	fallbackToken string
)

// Init 初始化签名密钥和有效期，ttl<=0 时使用默认 7 天
func Init(key string, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	secret = []byte(key)
	if ttl <= 0 {
		ttl = DefaultExpiry
	}
	expiry = ttl
}

// SetFallbackToken 设置进程级兜底 Token，仅在 Authenticate(nil) 时使用
func SetFallbackToken(token string) {
	mu.Lock()
	defer mu.Unlock()
	fallbackToken = token
}

// Expiry 当前 Token 有效期，用于设置 Cookie MaxAge
func Expiry() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return expiry
}

// GenerateToken 签发 Token
func GenerateToken(p Payload) (string, error) {
	mu.RLock()
	key, ttl := secret, expiry
	mu.RUnlock()
	if len(key) == 0 {
		return "", ErrNotInitialized
	}

	now := time.Now()
	claims := Claims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   p.UserID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyToken 校验签名和有效期，任何失败都返回 nil
func VerifyToken(tokenString string) *Payload {
	if tokenString == "" {
		return nil
	}
	mu.RLock()
	key := secret
	mu.RUnlock()
	if len(key) == 0 {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil
	}
	return claims.payload()
}

// DecodeToken 不校验签名直接解析，仅供排查使用
func DecodeToken(tokenString string) *Payload {
	if tokenString == "" {
		return nil
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims.payload()
}

// Authenticate 解析请求中的会话主体
// 依次尝试 Cookie、Authorization: Bearer 头；r 为 nil 时使用兜底 Token
func Authenticate(r *http.Request) *Payload {
	return VerifyToken(ExtractToken(r))
}

// ExtractToken 从请求中取出原始 Token 字符串
func ExtractToken(r *http.Request) string {
	if r == nil {
		mu.RLock()
		defer mu.RUnlock()
		return fallbackToken
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (c *Claims) payload() *Payload {
	return &Payload{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
