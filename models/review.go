package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review comment length bounds
const (
	MinCommentLength = 10
	MaxCommentLength = 2000
)

// Review represents a user's review of a service.
// At most one review exists per (user, service) pair, enforced by a
// unique compound index.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Service   primitive.ObjectID `bson:"service" json:"service"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// CollectionName specifies the collection name for the Review model
func (Review) CollectionName() string {
	return "reviews"
}

// ValidRating reports whether the rating is within the allowed [0,5] range
func ValidRating(rating float64) bool {
	return rating >= 0 && rating <= 5
}
