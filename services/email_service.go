package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skillhub/skillhub-api/config"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// EmailService sends transactional emails
type EmailService interface {
	SendVerificationEmail(ctx context.Context, toEmail, name, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, name, token string) error
}

// brevoEmailService sends emails through the Brevo (Sendinblue) HTTP API v3
type brevoEmailService struct {
	apiKey      string
	senderEmail string
	senderName  string
	client      *http.Client
}

var emailServiceInstance EmailService

// InitEmailService initializes the email service from configuration
func InitEmailService(cfg *config.Config) EmailService {
	emailServiceInstance = &brevoEmailService{
		apiKey:      cfg.BrevoAPIKey,
		senderEmail: cfg.BrevoSenderEmail,
		senderName:  cfg.BrevoSenderName,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailService {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(service EmailService) {
	emailServiceInstance = service
}

// SendVerificationEmail emails the account verification link
func (s *brevoEmailService) SendVerificationEmail(ctx context.Context, toEmail, name, token string) error {
	subject := "Verify your SkillHub account"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to SkillHub! Confirm your email address by opening the link below:</p><p><a href=\"https://skillhub.io/verify-email/%s\">Verify my email</a></p><p>The link expires in 24 hours.</p>",
		name, token)
	return s.send(ctx, toEmail, subject, html)
}

// SendPasswordResetEmail emails the password reset link
func (s *brevoEmailService) SendPasswordResetEmail(ctx context.Context, toEmail, name, token string) error {
	subject := "Reset your SkillHub password"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received a request to reset your password. Open the link below to choose a new one:</p><p><a href=\"https://skillhub.io/reset-password/%s\">Reset my password</a></p><p>The link expires in 10 minutes. If you didn't ask for this, ignore this email.</p>",
		name, token)
	return s.send(ctx, toEmail, subject, html)
}

func (s *brevoEmailService) send(ctx context.Context, toEmail, subject, html string) error {
	if s.apiKey == "" {
		return fmt.Errorf("email service not configured, email to %s skipped", toEmail)
	}

	payload := map[string]interface{}{
		"sender":      map[string]string{"name": s.senderName, "email": s.senderEmail},
		"to":          []map[string]string{{"email": toEmail}},
		"subject":     subject,
		"htmlContent": html,
	}
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
