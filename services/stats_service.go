package services

import (
	"context"
	"fmt"

	"github.com/skillhub/skillhub-api/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsService recomputes a service's derived review statistics.
// It must run synchronously after every review create/delete so callers
// never observe stale aggregates on the response they triggered.
type StatsService interface {
	RecalcServiceStats(ctx context.Context, serviceID primitive.ObjectID) error
}

type statsService struct {
	reviews  repository.ReviewRepository
	services repository.ServiceRepository
}

var statsServiceInstance StatsService

// InitStatsService initializes the stats service against the given repositories
func InitStatsService(reviews repository.ReviewRepository, services repository.ServiceRepository) StatsService {
	statsServiceInstance = &statsService{reviews: reviews, services: services}
	return statsServiceInstance
}

// GetStatsService returns the initialized stats service instance
func GetStatsService() StatsService {
	return statsServiceInstance
}

// SetStatsService sets the stats service instance (primarily for testing)
func SetStatsService(service StatsService) {
	statsServiceInstance = service
}

// RecalcServiceStats aggregates all reviews of the service in one pass and
// writes the mean rating and count back to the service document. A service
// with no reviews is written back to the (0, 0) zero state. The operation
// is idempotent; re-running it without intervening review changes yields
// the same stored values.
func (s *statsService) RecalcServiceStats(ctx context.Context, serviceID primitive.ObjectID) error {
	averageRating, totalReviews, err := s.reviews.AggregateStats(ctx, serviceID)
	if err != nil {
		return fmt.Errorf("failed to aggregate review stats: %w", err)
	}
	if totalReviews == 0 {
		averageRating = 0
	}
	if err := s.services.UpdateStats(ctx, serviceID, averageRating, totalReviews); err != nil {
		return fmt.Errorf("failed to write back review stats: %w", err)
	}
	return nil
}
