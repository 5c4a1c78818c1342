package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser     = "user"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User represents a marketplace account (regular user, service provider or admin)
type User struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                     string             `bson:"name" json:"name"`
	Email                    string             `bson:"email" json:"email"`
	Phone                    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password                 string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role                     string             `bson:"role" json:"role"`
	Photo                    string             `bson:"photo,omitempty" json:"photo,omitempty"` // S3 key of the profile image
	EmailVerified            bool               `bson:"emailVerified" json:"emailVerified"`
	PhoneVerified            bool               `bson:"phoneVerified" json:"phoneVerified"`
	EmailVerificationToken   string             `bson:"emailVerificationToken,omitempty" json:"-"`
	EmailVerificationExpires time.Time          `bson:"emailVerificationExpires,omitempty" json:"-"`
	PhoneVerificationCode    string             `bson:"phoneVerificationCode,omitempty" json:"-"`
	PhoneVerificationExpires time.Time          `bson:"phoneVerificationExpires,omitempty" json:"-"`
	PasswordResetToken       string             `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires     time.Time          `bson:"passwordResetExpires,omitempty" json:"-"`
	PasswordChangedAt        time.Time          `bson:"passwordChangedAt,omitempty" json:"-"`
	CreatedAt                time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updated_at"`
}

// CollectionName specifies the collection name for the User model
func (User) CollectionName() string {
	return "users"
}

// IsValidRole reports whether role is one of the known user roles
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email address so that lookups
// and the unique index are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PasswordChangedAfter reports whether the password was changed after the
// given instant. Tokens issued before a password change are rejected.
func (u *User) PasswordChangedAfter(t time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.After(t)
}
