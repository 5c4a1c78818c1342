package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// errDuplicateKey is what the mock repositories return on unique index
// violations, shaped so IsDuplicateKey recognizes it like a real one
var errDuplicateKey error = mongo.WriteException{
	WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key error"}},
}

var (
	userRepoInstance    UserRepository
	serviceRepoInstance ServiceRepository
	reviewRepoInstance  ReviewRepository
)

// Init wires the repositories against the given database and creates the
// indexes they rely on
func Init(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := db.Collection("users")
	if _, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	services := db.Collection("services")
	if _, err := services.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "provider", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}

	reviews := db.Collection("reviews")
	// One review per (user, service) pair
	if _, err := reviews.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "service", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "service", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}

	userRepoInstance = &mongoUserRepo{col: users}
	serviceRepoInstance = &mongoServiceRepo{col: services}
	reviewRepoInstance = &mongoReviewRepo{col: reviews}
	return nil
}

// GetUserRepository returns the user repository instance
func GetUserRepository() UserRepository {
	return userRepoInstance
}

// SetUserRepository sets the user repository instance (primarily for testing)
func SetUserRepository(repo UserRepository) {
	userRepoInstance = repo
}

// GetServiceRepository returns the service repository instance
func GetServiceRepository() ServiceRepository {
	return serviceRepoInstance
}

// SetServiceRepository sets the service repository instance (primarily for testing)
func SetServiceRepository(repo ServiceRepository) {
	serviceRepoInstance = repo
}

// GetReviewRepository returns the review repository instance
func GetReviewRepository() ReviewRepository {
	return reviewRepoInstance
}

// SetReviewRepository sets the review repository instance (primarily for testing)
func SetReviewRepository(repo ReviewRepository) {
	reviewRepoInstance = repo
}

// IsDuplicateKey reports whether err is a unique index violation
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
