package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skillhub/skillhub-api/config"
)

// SMSService sends text messages
type SMSService interface {
	SendVerificationCode(ctx context.Context, toPhone, code string) error
}

// twilioSMSService sends SMS through the Twilio REST API
type twilioSMSService struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

var smsServiceInstance SMSService

// InitSMSService initializes the SMS service from configuration
func InitSMSService(cfg *config.Config) SMSService {
	smsServiceInstance = &twilioSMSService{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromNumber: cfg.TwilioFromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	return smsServiceInstance
}

// GetSMSService returns the initialized SMS service instance
func GetSMSService() SMSService {
	return smsServiceInstance
}

// SetSMSService sets the SMS service instance (primarily for testing)
func SetSMSService(service SMSService) {
	smsServiceInstance = service
}

// SendVerificationCode texts the phone verification code
func (s *twilioSMSService) SendVerificationCode(ctx context.Context, toPhone, code string) error {
	if s.accountSID == "" {
		return fmt.Errorf("sms service not configured, message to %s skipped", toPhone)
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)
	data := url.Values{}
	data.Set("To", toPhone)
	data.Set("From", s.fromNumber)
	data.Set("Body", fmt.Sprintf("Your SkillHub verification code is %s. It expires in 10 minutes.", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
