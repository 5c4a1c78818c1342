package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by EnsureValidToken
const (
	ContextUserKey   = "current_user"
	ContextUserIDKey = "user_id"
)

// EnsureValidToken is a middleware that checks the validity of the bearer
// token, loads the authenticated user and stores it in the context.
// Tokens issued before the user's last password change are rejected.
func EnsureValidToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, "You are not logged in. Please log in to get access.")
			return
		}

		claims, err := services.GetTokenService().VerifyToken(token)
		if err != nil {
			if err == services.ErrTokenExpired {
				abortUnauthorized(c, "Your session has expired. Please log in again.")
				return
			}
			abortUnauthorized(c, "Invalid authentication token.")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Invalid authentication token.")
			return
		}

		user, err := repository.GetUserRepository().FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "The user belonging to this token no longer exists.")
			return
		}

		if user.PasswordChangedAfter(claims.IssuedAt) {
			abortUnauthorized(c, "Password was changed recently. Please log in again.")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRole is a middleware that checks the authenticated user's role.
// It must run after EnsureValidToken.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortUnauthorized(c, "You are not logged in. Please log in to get access.")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"status":  utils.StatusFail,
			"message": "You do not have permission to perform this action.",
		})
		c.Abort()
	}
}

// GetUserID extracts the authenticated user's ID from the Gin context
func GetUserID(c *gin.Context) (primitive.ObjectID, error) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not an ObjectID"}
	}

	return userID, nil
}

// GetCurrentUser extracts the authenticated user from the Gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"status":  utils.StatusFail,
		"message": message,
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
