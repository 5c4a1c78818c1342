package repository

import (
	"context"
	"sync"
	"time"

	"github.com/skillhub/skillhub-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is an in-memory UserRepository for testing
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

// NewMockUserRepository creates a new mock user repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

// SetAsMockForTesting sets this mock as the global user repository
func (m *MockUserRepository) SetAsMockForTesting() {
	SetUserRepository(m)
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = models.NormalizeEmail(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email || (u.Phone != "" && existing.Phone == u.Phone) {
			return errDuplicateKey
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.Email == models.NormalizeEmail(email) })
}

func (m *MockUserRepository) FindByEmailVerificationToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return tokenHash != "" && u.EmailVerificationToken == tokenHash })
}

func (m *MockUserRepository) FindByPasswordResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return tokenHash != "" && u.PasswordResetToken == tokenHash })
}

func (m *MockUserRepository) Update(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *MockUserRepository) findBy(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
