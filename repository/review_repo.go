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

// ReviewRepository provides access to the reviews collection
type ReviewRepository interface {
	Create(ctx context.Context, rev *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByService(ctx context.Context, serviceID primitive.ObjectID, filter query.Filter, shape query.Shape) ([]models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByService(ctx context.Context, serviceID primitive.ObjectID) error
	AggregateStats(ctx context.Context, serviceID primitive.ObjectID) (averageRating float64, totalReviews int64, err error)
}

type mongoReviewRepo struct {
	col *mongo.Collection
}

func (r *mongoReviewRepo) Create(ctx context.Context, rev *models.Review) error {
	rev.CreatedAt = time.Now().UTC()
	rev.UpdatedAt = rev.CreatedAt
	res, err := r.col.InsertOne(ctx, rev)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		rev.ID = id
	}
	return nil
}

func (r *mongoReviewRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var rev models.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// FindByService lists reviews for one service, with the caller's filter
// and shape applied on top of the service predicate
func (r *mongoReviewRepo) FindByService(ctx context.Context, serviceID primitive.ObjectID, filter query.Filter, shape query.Shape) ([]models.Review, error) {
	predicate := filter.BSON()
	predicate["service"] = serviceID

	cursor, err := r.col.Find(ctx, predicate, shape.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *mongoReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoReviewRepo) DeleteByService(ctx context.Context, serviceID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"service": serviceID})
	return err
}

// AggregateStats computes the mean rating and review count for a service
// in a single aggregation pass. Zero matching reviews yield (0, 0).
func (r *mongoReviewRepo) AggregateStats(ctx context.Context, serviceID primitive.ObjectID) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"service": serviceID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$service",
			"averageRating": bson.M{"$avg": "$rating"},
			"totalReviews":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		AverageRating float64 `bson:"averageRating"`
		TotalReviews  int64   `bson:"totalReviews"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].AverageRating, rows[0].TotalReviews, nil
}
