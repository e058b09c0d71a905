package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/cache"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
	"github.com/d60-Lab/shop-api/pkg/token"
)

// Mailer 发送找回密码验证码
type Mailer interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogMailer 仅记录日志，未接入邮件服务时使用。完整验证码只在 debug 级别输出。
type LogMailer struct{}

func (LogMailer) SendResetCode(_ context.Context, email, code string) error {
	logger.Info("password reset code issued", zap.String("email", email), zap.String("code", maskCode(code)))
	logger.Debug("password reset code", zap.String("email", email), zap.String("code", code))
	return nil
}

// maskCode 只保留最后两位
func maskCode(code string) string {
	if len(code) <= 2 {
		return strings.Repeat("*", len(code))
	}
	return strings.Repeat("*", len(code)-2) + code[len(code)-2:]
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type authService struct {
	users  repository.UserRepository
	tokens *token.Manager
	codes  cache.CodeStore
	mailer Mailer
	cost   int
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, codes cache.CodeStore, mailer Mailer) AuthService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &authService{users: users, tokens: tokens, codes: codes, mailer: mailer, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict(apperr.CodeUserEmailExists, nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Email:        email,
		FullName:     req.FullName,
		Phone:        nilIfEmpty(req.Phone),
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeUserEmailExists, nil)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials)
	}
	signed, _, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(apperr.CodeUnauthorized)
		}
		return nil, err
	}
	return u, nil
}

// ForgotPassword 邮箱不存在时同样返回成功，避免枚举账号
func (s *authService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	code, err := randomDigits(6)
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, email, code); err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}
	return s.mailer.SendResetCode(ctx, email, code)
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	ok, err := s.codes.Consume(ctx, email, req.Code)
	if err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}
	if !ok {
		return apperr.BadRequest(apperr.CodeResetCodeInvalid, nil)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return notFoundOr(err, apperr.CodeResetCodeInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, u.ID, string(hash))
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
