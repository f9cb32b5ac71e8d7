package services

import (
	"context"
	"errors"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const invalidCredentials = "Incorrect username or password"

// TokenResponse is the OAuth2-style body returned by /auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenResponse, *ServiceError)
}

type authServiceImpl struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) AuthService {
	return &authServiceImpl{users: users, tokens: tokens, logger: logger}
}

// Login exchanges credentials for an access token. Unknown users, inactive
// users and wrong passwords all get the same 401.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*TokenResponse, *ServiceError) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewUnauthorizedError(invalidCredentials)
		}
		s.logger.Error("Failed to fetch user for login", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.logger.Error("Failed to verify password", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, NewUnauthorizedError(invalidCredentials)
	}
	if !ok || !user.IsActive {
		return nil, NewUnauthorizedError(invalidCredentials)
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}
