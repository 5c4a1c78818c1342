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

// MockReviewRepository is an in-memory ReviewRepository for testing.
// AggregateStats computes the real mean/count over the stored reviews.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[primitive.ObjectID]models.Review
}

// NewMockReviewRepository creates a new mock review repository
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{reviews: make(map[primitive.ObjectID]models.Review)}
}

// SetAsMockForTesting sets this mock as the global review repository
func (m *MockReviewRepository) SetAsMockForTesting() {
	SetReviewRepository(m)
}

func (m *MockReviewRepository) Create(ctx context.Context, rev *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.reviews {
		if existing.User == rev.User && existing.Service == rev.Service {
			return errDuplicateKey
		}
	}
	if rev.ID.IsZero() {
		rev.ID = primitive.NewObjectID()
	}
	rev.CreatedAt = time.Now().UTC()
	rev.UpdatedAt = rev.CreatedAt
	m.reviews[rev.ID] = *rev
	return nil
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rev, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rev, nil
}

func (m *MockReviewRepository) FindByService(ctx context.Context, serviceID primitive.ObjectID, filter query.Filter, shape query.Shape) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []models.Review{}
	for _, rev := range m.reviews {
		if rev.Service == serviceID {
			matched = append(matched, rev)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	skip := int(shape.Skip())
	if skip >= len(matched) {
		return []models.Review{}, nil
	}
	matched = matched[skip:]
	if limit := int(shape.Limit()); limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *MockReviewRepository) DeleteByService(ctx context.Context, serviceID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, rev := range m.reviews {
		if rev.Service == serviceID {
			delete(m.reviews, id)
		}
	}
	return nil
}

func (m *MockReviewRepository) AggregateStats(ctx context.Context, serviceID primitive.ObjectID) (float64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum float64
	var count int64
	for _, rev := range m.reviews {
		if rev.Service == serviceID {
			sum += rev.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}
