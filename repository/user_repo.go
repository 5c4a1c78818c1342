package repository

import (
	"context"
	"time"

	"github.com/skillhub/skillhub-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository provides access to the users collection
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailVerificationToken(ctx context.Context, tokenHash string) (*models.User, error)
	FindByPasswordResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *mongoUserRepo) FindByEmailVerificationToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"emailVerificationToken": tokenHash})
}

func (r *mongoUserRepo) FindByPasswordResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"passwordResetToken": tokenHash})
}

// clearableUserFields are tagged omitempty, so marshaling drops them from
// the $set document when cleared. They must be $unset explicitly or a used
// verification/reset credential survives the write.
var clearableUserFields = []string{
	"phone",
	"photo",
	"emailVerificationToken",
	"emailVerificationExpires",
	"phoneVerificationCode",
	"phoneVerificationExpires",
	"passwordResetToken",
	"passwordResetExpires",
}

// userUpdateDocument renders u as an update document: every marshaled field
// goes through $set, and clearable fields missing from the marshaled form
// are $unset.
func userUpdateDocument(u *models.User) (bson.M, error) {
	raw, err := bson.Marshal(u)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	delete(set, "_id")

	unset := bson.M{}
	for _, field := range clearableUserFields {
		if _, ok := set[field]; !ok {
			unset[field] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func (r *mongoUserRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	update, err := userUpdateDocument(u)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateByID(ctx, u.ID, update)
	return err
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
