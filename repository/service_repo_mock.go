package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockServiceRepository is an in-memory ServiceRepository for testing.
// Find honors the shape's pagination and default creation-time ordering;
// predicate evaluation is left to the real collection.
type MockServiceRepository struct {
	mu       sync.RWMutex
	services map[primitive.ObjectID]models.Service
}

// NewMockServiceRepository creates a new mock service repository
func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{services: make(map[primitive.ObjectID]models.Service)}
}

// SetAsMockForTesting sets this mock as the global service repository
func (m *MockServiceRepository) SetAsMockForTesting() {
	SetServiceRepository(m)
}

func (m *MockServiceRepository) Create(ctx context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	if s.Reviews == nil {
		s.Reviews = []primitive.ObjectID{}
	}
	m.services[s.ID] = *s
	return nil
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MockServiceRepository) Find(ctx context.Context, filter query.Filter, shape query.Shape) ([]models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]models.Service, 0, len(m.services))
	for _, s := range m.services {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	skip := int(shape.Skip())
	if skip >= len(all) {
		return []models.Service{}, nil
	}
	all = all[skip:]
	if limit := int(shape.Limit()); limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockServiceRepository) Update(ctx context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.services[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	m.services[s.ID] = *s
	return nil
}

func (m *MockServiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.services[id]; !ok {
		return ErrNotFound
	}
	delete(m.services, id)
	return nil
}

func (m *MockServiceRepository) UpdateStats(ctx context.Context, id primitive.ObjectID, averageRating float64, totalReviews int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.services[id]
	if !ok {
		return ErrNotFound
	}
	s.AverageRating = averageRating
	s.TotalReviews = totalReviews
	s.UpdatedAt = time.Now().UTC()
	m.services[id] = s
	return nil
}

func (m *MockServiceRepository) AddReviewRef(ctx context.Context, serviceID, reviewID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.services[serviceID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range s.Reviews {
		if id == reviewID {
			return nil
		}
	}
	s.Reviews = append(s.Reviews, reviewID)
	m.services[serviceID] = s
	return nil
}

func (m *MockServiceRepository) RemoveReviewRef(ctx context.Context, serviceID, reviewID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.services[serviceID]
	if !ok {
		return ErrNotFound
	}
	kept := s.Reviews[:0]
	for _, id := range s.Reviews {
		if id != reviewID {
			kept = append(kept, id)
		}
	}
	s.Reviews = kept
	m.services[serviceID] = s
	return nil
}
