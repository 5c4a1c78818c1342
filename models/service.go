package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tagPattern restricts tags to letters, digits and spaces
var tagPattern = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// Service represents a listing offered by a provider
type Service struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Provider      primitive.ObjectID   `bson:"provider" json:"provider"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description" json:"description"`
	Price         float64              `bson:"price" json:"price"`
	Tags          []string             `bson:"tags" json:"tags"`
	Images        []string             `bson:"images" json:"images"`
	AverageRating float64              `bson:"averageRating" json:"averageRating"`
	TotalReviews  int64                `bson:"totalReviews" json:"totalReviews"`
	Reviews       []primitive.ObjectID `bson:"reviews" json:"reviews"` // denormalized back-references; stats come from aggregation
	CreatedAt     time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updated_at"`
}

// CollectionName specifies the collection name for the Service model
func (Service) CollectionName() string {
	return "services"
}

// NormalizeTags trims, lowercases and deduplicates tags while preserving
// order. Returns false if any tag contains a character outside
// letters/digits/spaces.
func NormalizeTags(tags []string) ([]string, bool) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if !tagPattern.MatchString(tag) {
			return nil, false
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out, true
}
