package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxe-backend/internal/models"
)

type UserRepository struct {
	collection *mongo.Collection
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	users, err := findAll[models.User](ctx, r.collection, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// FindByEmail returns nil when no user has the email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Create inserts the user unless one with the same email exists, in which
// case it returns ErrDuplicateEmail without writing.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (models.InsertResult, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return models.InsertResult{}, err
	}
	if existing != nil {
		return models.InsertResult{}, ErrDuplicateEmail
	}

	user.ID = primitive.NilObjectID
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// lost a race with a concurrent insert of the same email
		if mongo.IsDuplicateKeyError(err) {
			return models.InsertResult{}, ErrDuplicateEmail
		}
		return models.InsertResult{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return insertResult(res), nil
}

func (r *UserRepository) PromoteToAdmin(ctx context.Context, id string) (models.UpdateResult, error) {
	res, err := updateByID(ctx, r.collection, id, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return res, fmt.Errorf("failed to promote user: %w", err)
	}
	return res, nil
}

func (r *UserRepository) PromoteByEmail(ctx context.Context, email string) (models.UpdateResult, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": models.RoleAdmin}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to promote user: %w", err)
	}
	return updateResult(res), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	res, err := deleteByID(ctx, r.collection, id)
	if err != nil {
		return res, fmt.Errorf("failed to delete user: %w", err)
	}
	return res, nil
}
