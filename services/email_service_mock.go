package services

import (
	"context"
	"sync"
)

// SentEmail records one email handed to the mock
type SentEmail struct {
	To    string
	Name  string
	Token string
	Kind  string // "verification" or "password_reset"
}

// MockEmailService is a mock implementation of EmailService for testing
type MockEmailService struct {
	mu   sync.Mutex
	sent []SentEmail
	Fail bool // when set, sends return an error
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SetAsMockForTesting sets this mock as the global email service instance
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// SendVerificationEmail records a verification email
func (m *MockEmailService) SendVerificationEmail(ctx context.Context, toEmail, name, token string) error {
	return m.record(SentEmail{To: toEmail, Name: name, Token: token, Kind: "verification"})
}

// SendPasswordResetEmail records a password reset email
func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, toEmail, name, token string) error {
	return m.record(SentEmail{To: toEmail, Name: name, Token: token, Kind: "password_reset"})
}

// Sent returns a copy of all recorded emails
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockEmailService) record(email SentEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errMockDeliveryFailed
	}
	m.sent = append(m.sent, email)
	return nil
}
