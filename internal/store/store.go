// Package store holds the MongoDB repositories behind the storefront API.
// Each collection is used as a flat table; references between collections
// (review → product, cart item → user, payment → cart items) are plain ids
// with no integrity enforced by the database.
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

const (
	usersCollection    = "users"
	productsCollection = "product"
	reviewsCollection  = "reviews"
	cartsCollection    = "carts"
	paymentsCollection = "payments"
)

var (
	ErrInvalidID      = errors.New("invalid document id")
	ErrDuplicateEmail = errors.New("user already existing")
)

type Store struct {
	db *mongo.Database

	Users    *UserRepository
	Products *ProductRepository
	Reviews  *ReviewRepository
	Carts    *CartRepository
	Payments *PaymentRepository
	Stats    *StatsRepository
}

func New(db *mongo.Database) *Store {
	users := db.Collection(usersCollection)
	products := db.Collection(productsCollection)
	carts := db.Collection(cartsCollection)
	payments := db.Collection(paymentsCollection)

	return &Store{
		db:       db,
		Users:    &UserRepository{collection: users},
		Products: &ProductRepository{collection: products},
		Reviews:  &ReviewRepository{collection: db.Collection(reviewsCollection)},
		Carts:    &CartRepository{collection: carts},
		Payments: &PaymentRepository{payments: payments, carts: carts},
		Stats:    &StatsRepository{users: users, products: products, payments: payments},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// CreateIndexes is safe to call on every start. The unique email index fails
// on a database that already holds duplicate users.
func (s *Store) CreateIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "date", Value: -1}}},
		},
		cartsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "cartsCleared", Value: 1}}},
		},
	}

	for name, indexes := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

func parseIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := parseID(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func insertResult(res *mongo.InsertOneResult) models.InsertResult {
	return models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findByID returns nil without error when no document matches.
func findByID[T any](ctx context.Context, coll *mongo.Collection, hex string) (*T, error) {
	id, err := parseID(hex)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, hex string) (models.DeleteResult, error) {
	id, err := parseID(hex)
	if err != nil {
		return models.DeleteResult{}, err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return deleteResult(res), nil
}

func updateByID(ctx context.Context, coll *mongo.Collection, hex string, set bson.M) (models.UpdateResult, error) {
	id, err := parseID(hex)
	if err != nil {
		return models.UpdateResult{}, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, err
	}
	return updateResult(res), nil
}
