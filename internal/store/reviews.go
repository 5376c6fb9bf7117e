package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxe-backend/internal/models"
)

type ReviewRepository struct {
	collection *mongo.Collection
}

func (r *ReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := findAll[models.Review](ctx, r.collection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListByProduct returns the product's reviews newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	reviews, err := findAll[models.Review](ctx, r.collection, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list product reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) (models.InsertResult, error) {
	review.ID = primitive.NilObjectID
	if review.Date.IsZero() {
		review.Date = time.Now().UTC()
	}
	res, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("failed to insert review: %w", err)
	}
	return insertResult(res), nil
}

// UpdateText rewrites the review body and stamps it with the edit time.
func (r *ReviewRepository) UpdateText(ctx context.Context, id, text string) (models.UpdateResult, error) {
	res, err := updateByID(ctx, r.collection, id, bson.M{"review": text, "date": time.Now().UTC()})
	if err != nil {
		return res, fmt.Errorf("failed to update review: %w", err)
	}
	return res, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	res, err := deleteByID(ctx, r.collection, id)
	if err != nil {
		return res, fmt.Errorf("failed to delete review: %w", err)
	}
	return res, nil
}
