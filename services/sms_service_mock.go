package services

import (
	"context"
	"errors"
	"sync"
)

var errMockDeliveryFailed = errors.New("mock delivery failed")

// SentSMS records one message handed to the mock
type SentSMS struct {
	To   string
	Code string
}

// MockSMSService is a mock implementation of SMSService for testing
type MockSMSService struct {
	mu   sync.Mutex
	sent []SentSMS
	Fail bool // when set, sends return an error
}

// NewMockSMSService creates a new mock SMS service
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

// SetAsMockForTesting sets this mock as the global SMS service instance
func (m *MockSMSService) SetAsMockForTesting() {
	SetSMSService(m)
}

// SendVerificationCode records a verification code message
func (m *MockSMSService) SendVerificationCode(ctx context.Context, toPhone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errMockDeliveryFailed
	}
	m.sent = append(m.sent, SentSMS{To: toPhone, Code: code})
	return nil
}

// Sent returns a copy of all recorded messages
func (m *MockSMSService) Sent() []SentSMS {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentSMS, len(m.sent))
	copy(out, m.sent)
	return out
}
