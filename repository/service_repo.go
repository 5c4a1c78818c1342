package repository

import (
	"context"
	"time"

	"github.com/skillhub/skillhub-api/models"
	"github.com/skillhub/skillhub-api/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceRepository provides access to the services collection
type ServiceRepository interface {
	Create(ctx context.Context, s *models.Service) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	Find(ctx context.Context, filter query.Filter, shape query.Shape) ([]models.Service, error)
	Update(ctx context.Context, s *models.Service) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	UpdateStats(ctx context.Context, id primitive.ObjectID, averageRating float64, totalReviews int64) error
	AddReviewRef(ctx context.Context, serviceID, reviewID primitive.ObjectID) error
	RemoveReviewRef(ctx context.Context, serviceID, reviewID primitive.ObjectID) error
}

type mongoServiceRepo struct {
	col *mongo.Collection
}

func (r *mongoServiceRepo) Create(ctx context.Context, s *models.Service) error {
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
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id
	}
	return nil
}

func (r *mongoServiceRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	var s models.Service
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Find runs a filtered, shaped list query: predicate from the filter,
// sort/projection/pagination from the shape
func (r *mongoServiceRepo) Find(ctx context.Context, filter query.Filter, shape query.Shape) ([]models.Service, error) {
	cursor, err := r.col.Find(ctx, filter.BSON(), shape.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *mongoServiceRepo) Update(ctx context.Context, s *models.Service) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, s.ID, bson.M{"$set": s})
	return err
}

func (r *mongoServiceRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStats writes back the recomputed aggregate pair
func (r *mongoServiceRepo) UpdateStats(ctx context.Context, id primitive.ObjectID, averageRating float64, totalReviews int64) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"averageRating": averageRating,
		"totalReviews":  totalReviews,
		"updatedAt":     time.Now().UTC(),
	}})
	return err
}

func (r *mongoServiceRepo) AddReviewRef(ctx context.Context, serviceID, reviewID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, serviceID, bson.M{"$addToSet": bson.M{"reviews": reviewID}})
	return err
}

func (r *mongoServiceRepo) RemoveReviewRef(ctx context.Context, serviceID, reviewID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, serviceID, bson.M{"$pull": bson.M{"reviews": reviewID}})
	return err
}
