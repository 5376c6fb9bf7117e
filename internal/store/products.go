package store

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"luxe-backend/internal/models"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products, err := findAll[models.Product](ctx, r.collection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Search matches query as a case-insensitive substring of the product name
// or category. An empty query matches every product.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"category": pattern},
		},
	}
	products, err := findAll[models.Product](ctx, r.collection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := findByID[models.Product](ctx, r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) (models.InsertResult, error) {
	p.ID = primitive.NilObjectID
	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return insertResult(res), nil
}

// Update replaces the catalog fields of a product. Fields not listed here are
// never written.
func (r *ProductRepository) Update(ctx context.Context, id string, p *models.Product) (models.UpdateResult, error) {
	set := bson.M{
		"name":        p.Name,
		"gender":      p.Gender,
		"category":    p.Category,
		"price":       p.Price,
		"brand":       p.Brand,
		"description": p.Description,
		"image":       p.Image,
	}
	res, err := updateByID(ctx, r.collection, id, set)
	if err != nil {
		return res, fmt.Errorf("failed to update product: %w", err)
	}
	return res, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	res, err := deleteByID(ctx, r.collection, id)
	if err != nil {
		return res, fmt.Errorf("failed to delete product: %w", err)
	}
	return res, nil
}
