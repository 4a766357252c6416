package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	Init("test-secret", 0)
	payloads := []Payload{
		{UserID: "u-1", Email: "a@example.com", Role: "user"},
		{UserID: "u-2", Email: "admin@example.com", Role: "admin"},
		{UserID: "u-3"},
	}
	for _, p := range payloads {
		token, err := GenerateToken(p)
		require.NoError(t, err)
		got := VerifyToken(token)
		require.NotNil(t, got)
		assert.Equal(t, p, *got)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	Init("test-secret", 0)
	token, err := GenerateToken(Payload{UserID: "u-1", Email: "a@example.com", Role: "user"})
	require.NoError(t, err)

	assert.Nil(t, VerifyToken(""))
	assert.Nil(t, VerifyToken("not-a-token"))
	assert.Nil(t, VerifyToken(token+"x"))

	Init("other-secret", 0)
	assert.Nil(t, VerifyToken(token))
	// DecodeToken 不校验签名
	decoded := DecodeToken(token)
	require.NotNil(t, decoded)
	assert.Equal(t, "u-1", decoded.UserID)
}

func TestVerifyRejectsExpired(t *testing.T) {
	Init("test-secret", -time.Minute)
	defer Init("test-secret", 0)
	// ttl<=0 回退为默认值，需要手动构造过期 Token
	mu.Lock()
	expiry = -time.Minute
	mu.Unlock()

	token, err := GenerateToken(Payload{UserID: "u-1"})
	require.NoError(t, err)
	assert.Nil(t, VerifyToken(token))
}

func TestGenerateWithoutInit(t *testing.T) {
	mu.Lock()
	saved := secret
	secret = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		secret = saved
		mu.Unlock()
	}()

	_, err := GenerateToken(Payload{UserID: "u-1"})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestAuthenticateSources(t *testing.T) {
	Init("test-secret", 0)
	cookieToken, _ := GenerateToken(Payload{UserID: "cookie-user"})
	headerToken, _ := GenerateToken(Payload{UserID: "header-user"})

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: cookieToken})
	r.Header.Set("Authorization", "Bearer "+headerToken)
	require.NotNil(t, Authenticate(r))
	assert.Equal(t, "cookie-user", Authenticate(r).UserID)

	r = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+headerToken)
	assert.Equal(t, "header-user", Authenticate(r).UserID)

	r = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Basic abc")
	assert.Nil(t, Authenticate(r))

	assert.Nil(t, Authenticate(nil))
	SetFallbackToken(headerToken)
	defer SetFallbackToken("")
	assert.Equal(t, "header-user", Authenticate(nil).UserID)
}
