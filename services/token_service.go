package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillhub/skillhub-api/config"
	"github.com/skillhub/skillhub-api/models"
)

// Token validation errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenClaims is what a verified access token asserts about its bearer
type TokenClaims struct {
	UserID   string
	Role     string
	IssuedAt time.Time
}

// TokenService issues and verifies access tokens
type TokenService interface {
	IssueToken(user *models.User) (string, error)
	VerifyToken(token string) (*TokenClaims, error)
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// jwtTokenService signs HS256 tokens with the configured secret
type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
}

var tokenServiceInstance TokenService

// InitTokenService initializes the token service from configuration
func InitTokenService(cfg *config.Config) TokenService {
	tokenServiceInstance = &jwtTokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.JWTExpiresInHours) * time.Hour,
	}
	return tokenServiceInstance
}

// GetTokenService returns the initialized token service instance
func GetTokenService() TokenService {
	return tokenServiceInstance
}

// SetTokenService sets the token service instance (primarily for testing)
func SetTokenService(service TokenService) {
	tokenServiceInstance = service
}

// IssueToken signs an access token for the given user
func (s *jwtTokenService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken parses and validates an access token
func (s *jwtTokenService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	issuedAt := time.Time{}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return &TokenClaims{
		UserID:   claims.Subject,
		Role:     claims.Role,
		IssuedAt: issuedAt,
	}, nil
}
