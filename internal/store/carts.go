package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"luxe-backend/internal/models"
)

type CartRepository struct {
	collection *mongo.Collection
}

func (r *CartRepository) ListByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	items, err := findAll[models.CartItem](ctx, r.collection, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

func (r *CartRepository) Create(ctx context.Context, item *models.CartItem) (models.InsertResult, error) {
	item.ID = primitive.NilObjectID
	res, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("failed to insert cart item: %w", err)
	}
	return insertResult(res), nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	res, err := deleteByID(ctx, r.collection, id)
	if err != nil {
		return res, fmt.Errorf("failed to delete cart item: %w", err)
	}
	return res, nil
}
