package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/middleware"
	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/repository"
	"github.com/skillhub/skillhub-api/services"
	"github.com/skillhub/skillhub-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// Verification token / code lifetimes
const (
	emailTokenTTL    = 24 * time.Hour
	phoneCodeTTL     = 10 * time.Minute
	resetTokenTTL    = 10 * time.Minute
	phoneCodeLength  = 6
	minPasswordChars = 8
)

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"omitempty,e164"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Role            string `json:"role" binding:"omitempty"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/v1/auth/signup - creates an unverified account,
// emails a verification link and returns a fresh token
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Invalid request data: "+err.Error()))
		return
	}

	if len(req.Password) < minPasswordChars {
		abortWithError(c, utils.BadRequest("Password must be at least 8 characters"))
		return
	}
	// Confirmation is validated at creation time and never stored
	if req.Password != req.PasswordConfirm {
		abortWithError(c, utils.BadRequest("Passwords do not match"))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	// Admin accounts are provisioned out of band
	if role != models.RoleUser && role != models.RoleProvider {
		abortWithError(c, utils.BadRequest("Role must be either 'user' or 'provider'"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, err)
		return
	}

	verifyToken, err := utils.GenerateSecureToken()
	if err != nil {
		abortWithError(c, err)
		return
	}

	user := models.User{
		Name:                     req.Name,
		Email:                    req.Email,
		Phone:                    req.Phone,
		Password:                 string(hash),
		Role:                     role,
		EmailVerificationToken:   utils.HashToken(verifyToken),
		EmailVerificationExpires: time.Now().Add(emailTokenTTL),
	}

	if err := repository.GetUserRepository().Create(c.Request.Context(), &user); err != nil {
		if repository.IsDuplicateKey(err) {
			abortWithError(c, utils.Conflict("An account with this email or phone already exists"))
			return
		}
		abortWithError(c, err)
		return
	}

	// Delivery failure must not roll back the signup; the user can request
	// a new verification email
	if err := services.GetEmailService().SendVerificationEmail(c.Request.Context(), user.Email, user.Name, verifyToken); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	respondWithToken(c, http.StatusCreated, &user)
}

// Login handles POST /api/v1/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Please provide email and password"))
		return
	}

	user, err := repository.GetUserRepository().FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Incorrect email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		abortWithError(c, utils.Unauthorized("Incorrect email or password"))
		return
	}

	respondWithToken(c, http.StatusOK, user)
}

// VerifyEmail handles GET /api/v1/auth/verify-email/:token
func VerifyEmail(c *gin.Context) {
	tokenHash := utils.HashToken(c.Param("token"))

	repo := repository.GetUserRepository()
	user, err := repo.FindByEmailVerificationToken(c.Request.Context(), tokenHash)
	if err != nil {
		abortWithError(c, utils.BadRequest("Verification token is invalid or has expired"))
		return
	}
	if time.Now().After(user.EmailVerificationExpires) {
		abortWithError(c, utils.BadRequest("Verification token is invalid or has expired"))
		return
	}

	user.EmailVerified = true
	user.EmailVerificationToken = ""
	user.EmailVerificationExpires = time.Time{}
	if err := repo.Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "Email verified successfully")
}

// SendPhoneCode handles POST /api/v1/auth/send-phone-code - texts a
// verification code to the authenticated user's phone
func SendPhoneCode(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}
	if user.Phone == "" {
		abortWithError(c, utils.BadRequest("No phone number on this account"))
		return
	}

	code, err := utils.GenerateOTP(phoneCodeLength)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user.PhoneVerificationCode = utils.HashToken(code)
	user.PhoneVerificationExpires = time.Now().Add(phoneCodeTTL)
	if err := repository.GetUserRepository().Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	if err := services.GetSMSService().SendVerificationCode(c.Request.Context(), user.Phone, code); err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "Verification code sent")
}

// VerifyPhoneRequest represents the request body for phone verification
type VerifyPhoneRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyPhone handles POST /api/v1/auth/verify-phone
func VerifyPhone(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	var req VerifyPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Please provide the verification code"))
		return
	}

	if user.PhoneVerificationCode == "" ||
		user.PhoneVerificationCode != utils.HashToken(req.Code) ||
		time.Now().After(user.PhoneVerificationExpires) {
		abortWithError(c, utils.BadRequest("Verification code is invalid or has expired"))
		return
	}

	user.PhoneVerified = true
	user.PhoneVerificationCode = ""
	user.PhoneVerificationExpires = time.Time{}
	if err := repository.GetUserRepository().Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "Phone verified successfully")
}

// ForgotPasswordRequest represents the request body for a reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Please provide your email address"))
		return
	}

	repo := repository.GetUserRepository()
	user, err := repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		abortWithError(c, utils.NotFound("There is no user with that email address"))
		return
	}

	resetToken, err := utils.GenerateSecureToken()
	if err != nil {
		abortWithError(c, err)
		return
	}

	user.PasswordResetToken = utils.HashToken(resetToken)
	user.PasswordResetExpires = time.Now().Add(resetTokenTTL)
	if err := repo.Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	if err := services.GetEmailService().SendPasswordResetEmail(c.Request.Context(), user.Email, user.Name, resetToken); err != nil {
		// Clear the token so a failed delivery can't leave a live reset window
		user.PasswordResetToken = ""
		user.PasswordResetExpires = time.Time{}
		if updateErr := repo.Update(c.Request.Context(), user); updateErr != nil {
			log.Printf("Failed to clear reset token for %s: %v", user.Email, updateErr)
		}
		abortWithError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "Password reset link sent to your email")
}

// ResetPasswordRequest represents the request body for resetting a password
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// ResetPassword handles PATCH /api/v1/auth/reset-password/:token
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Please provide a new password and confirmation"))
		return
	}
	if len(req.Password) < minPasswordChars {
		abortWithError(c, utils.BadRequest("Password must be at least 8 characters"))
		return
	}
	if req.Password != req.PasswordConfirm {
		abortWithError(c, utils.BadRequest("Passwords do not match"))
		return
	}

	tokenHash := utils.HashToken(c.Param("token"))
	repo := repository.GetUserRepository()
	user, err := repo.FindByPasswordResetToken(c.Request.Context(), tokenHash)
	if err != nil {
		abortWithError(c, utils.BadRequest("Reset token is invalid or has expired"))
		return
	}
	if time.Now().After(user.PasswordResetExpires) {
		abortWithError(c, utils.BadRequest("Reset token is invalid or has expired"))
		return
	}

	if err := rotatePassword(c, repo, user, req.Password); err != nil {
		abortWithError(c, err)
		return
	}

	respondWithToken(c, http.StatusOK, user)
}

// UpdatePasswordRequest represents the request body for a password change
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// UpdatePassword handles PATCH /api/v1/auth/update-password for
// authenticated users
func UpdatePassword(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		abortWithError(c, utils.Unauthorized("Could not extract user information"))
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, utils.BadRequest("Please provide your current and new password"))
		return
	}
	if len(req.Password) < minPasswordChars {
		abortWithError(c, utils.BadRequest("Password must be at least 8 characters"))
		return
	}
	if req.Password != req.PasswordConfirm {
		abortWithError(c, utils.BadRequest("Passwords do not match"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		abortWithError(c, utils.Unauthorized("Your current password is wrong"))
		return
	}

	if err := rotatePassword(c, repository.GetUserRepository(), user, req.Password); err != nil {
		abortWithError(c, err)
		return
	}

	respondWithToken(c, http.StatusOK, user)
}

// rotatePassword replaces the stored hash, clears any reset token and
// stamps passwordChangedAt. The stamp is backdated one second so the
// token issued on the same request stays valid.
func rotatePassword(c *gin.Context, repo repository.UserRepository, user *models.User, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	user.PasswordResetToken = ""
	user.PasswordResetExpires = time.Time{}
	user.PasswordChangedAt = time.Now().Add(-time.Second)
	return repo.Update(c.Request.Context(), user)
}

// respondWithToken issues a fresh access token and writes it with the user
func respondWithToken(c *gin.Context, statusCode int, user *models.User) {
	token, err := services.GetTokenService().IssueToken(user)
	if err != nil {
		abortWithError(c, err)
		return
	}
	utils.RespondData(c, statusCode, gin.H{
		"token": token,
		"user":  user,
	})
}
