package services

import (
	"testing"
	"time"

	"github.com/skillhub/skillhub-api/config"
	"github.com/skillhub/skillhub-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestTokenService(t *testing.T) TokenService {
	t.Helper()
	return InitTokenService(&config.Config{
		JWTSecret:         "test-secret-for-unit-tests",
		JWTExpiresInHours: 1,
	})
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := newTestTokenService(t)

	user := &models.User{
		ID:   primitive.NewObjectID(),
		Role: models.RoleProvider,
	}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleProvider, claims.Role)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.VerifyToken("not-a-token")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	other := InitTokenService(&config.Config{JWTSecret: "different-secret", JWTExpiresInHours: 1})
	_, err = other.VerifyToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := &jwtTokenService{
		secret: []byte("test-secret-for-unit-tests"),
		ttl:    -time.Minute,
	}
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Equal(t, ErrTokenExpired, err)
}
