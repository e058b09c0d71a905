package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/shop-api/internal/cache"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
	"github.com/d60-Lab/shop-api/pkg/token"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendResetCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[email] = code
	return nil
}

func newTestAuthService(t *testing.T, codes cache.CodeStore) (*authService, *captureMailer, *token.Manager) {
	db := setupTestDB(t)
	tm := token.NewManager("test-secret", "shop-api", time.Hour)
	mailer := &captureMailer{}
	svc := NewAuthService(repository.NewUserRepository(db), tm, codes, mailer).(*authService)
	svc.cost = bcrypt.MinCost
	return svc, mailer, tm
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	svc, _, tm := newTestAuthService(t, cache.NewMemoryCodeStore(time.Minute))
	ctx := context.Background()

	u, err := svc.Register(ctx, dto.RegisterRequest{Email: " Jane@Example.com ", Password: "password123", FullName: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.NotEqual(t, "password123", u.PasswordHash)

	_, err = svc.Register(ctx, dto.RegisterRequest{Email: "jane@example.com", Password: "password123"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, apperr.CodeUserEmailExists, e.Code)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	tok, err := svc.Login(ctx, dto.LoginRequest{Email: "JANE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)

	claims, err := tm.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, model.RoleCustomer, claims.Role)

	me, err := svc.Me(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	_, err = svc.Me(ctx, "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestAuth_PasswordResetWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, mailer, _ := newTestAuthService(t, cache.NewRedisCodeStore(client, "auth:reset:", 15*time.Minute))
	ctx := context.Background()
	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	// 未注册邮箱静默成功
	require.NoError(t, svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Empty(t, mailer.codes["ghost@example.com"])

	require.NoError(t, svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "jane@example.com"}))
	code := mailer.codes["jane@example.com"]
	require.Len(t, code, 6)
	assert.True(t, mr.Exists("auth:reset:jane@example.com"))
	assert.Greater(t, mr.TTL("auth:reset:jane@example.com"), time.Duration(0))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = svc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "jane@example.com", Code: wrong, NewPassword: "new-password"})
	assert.True(t, apperr.HasCode(err, apperr.CodeResetCodeInvalid))

	require.NoError(t, svc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "jane@example.com", Code: code, NewPassword: "new-password"}))
	assert.False(t, mr.Exists("auth:reset:jane@example.com"))

	// 验证码只能使用一次
	err = svc.ResetPassword(ctx, dto.ResetPasswordRequest{Email: "jane@example.com", Code: code, NewPassword: "another-one"})
	assert.True(t, apperr.HasCode(err, apperr.CodeResetCodeInvalid))

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "password123"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestAuth_ResetCodeExpires(t *testing.T) {
	svc, mailer, _ := newTestAuthService(t, cache.NewMemoryCodeStore(time.Millisecond))
	ctx := context.Background()
	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "jane@example.com"}))

	time.Sleep(5 * time.Millisecond)
	err = svc.ResetPassword(ctx, dto.ResetPasswordRequest{
		Email: "jane@example.com", Code: mailer.codes["jane@example.com"], NewPassword: "new-password",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeResetCodeInvalid))
}

func TestLogMailer_MasksCodeAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	require.NoError(t, LogMailer{}.SendResetCode(context.Background(), "a@example.com", "123456"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "****56", entries[0].ContextMap()["code"])
	for _, v := range entries[0].ContextMap() {
		assert.NotEqual(t, "123456", v)
	}
}

func TestMaskCode(t *testing.T) {
	assert.Equal(t, "****56", maskCode("123456"))
	assert.Equal(t, "**", maskCode("12"))
	assert.Equal(t, "", maskCode(""))
}
