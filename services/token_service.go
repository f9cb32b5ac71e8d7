package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/golang-jwt/jwt/v4"
)

const accessTokenType = "access"

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the identity carried in an access token.
type TokenClaims struct {
	UserID   string
	Username string
	Role     models.Role
}

// TokenIssuer creates and validates access tokens.
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, error)
	ValidateToken(tokenStr string) (*TokenClaims, error)
	TTL() time.Duration
}

// TokenService signs HS256 JWTs with a shared secret.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secretKey: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

func (s *TokenService) GenerateAccessToken(user *models.User) (string, error) {
	if len(s.secretKey) == 0 {
		return "", errors.New("JWT secret not configured")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
		"typ":      accessTokenType,
		"exp":      now.Add(s.ttl).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *TokenService) ValidateToken(tokenStr string) (*TokenClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrInvalidToken
	}
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if typ, ok := claims["typ"].(string); !ok || typ != accessTokenType {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !models.Role(role).IsValid() {
		return nil, ErrInvalidToken
	}
	return &TokenClaims{UserID: sub, Username: username, Role: models.Role(role)}, nil
}
