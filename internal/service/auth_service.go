package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/auth"
	"github.com/spec-kit/hr-intake/internal/domain"
	apperrors "github.com/spec-kit/hr-intake/pkg/util/errorutil"
)

// AuthService authenticates the demo principals and issues session
// tokens. The engine itself never authenticates anyone; it only
// receives an already-authenticated employee id.
type AuthService struct {
	credentials map[string]domain.Credential
	tokens      *auth.TokenManager
	logger      *zap.Logger
}

// LoginResult carries the issued token and principal metadata.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	UserName  string
	Role      domain.Role
}

// NewAuthService constructs the service over a fixed credential set.
func NewAuthService(credentials []domain.Credential, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	byID := make(map[string]domain.Credential, len(credentials))
	for _, cred := range credentials {
		byID[strings.ToUpper(cred.UserID)] = cred
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{credentials: byID, tokens: tokens, logger: logger}
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(userID, password string) (*LoginResult, error) {
	cred, ok := s.credentials[strings.ToUpper(userID)]
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.VerifyPassword(cred.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", userID))
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(cred.UserID, cred.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    cred.UserID,
		UserName:  cred.Name,
		Role:      cred.Role,
	}, nil
}

// TokenManager exposes the underlying manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
