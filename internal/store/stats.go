package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"luxe-backend/internal/models"
)

type StatsRepository struct {
	users    *mongo.Collection
	products *mongo.Collection
	payments *mongo.Collection
}

// AdminStats reports collection sizes and the sum of every payment price.
func (r *StatsRepository) AdminStats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Users, err = r.users.EstimatedDocumentCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ProductItems, err = r.products.EstimatedDocumentCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Orders, err = r.payments.EstimatedDocumentCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Revenue, err = r.totalRevenue(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.AdminStats{}, fmt.Errorf("failed to compute admin stats: %w", err)
	}
	return stats, nil
}

func (r *StatsRepository) totalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	}
	cur, err := r.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalRevenue, nil
}

// OrderStats expands each payment's product ids, joins them against the
// catalog and reports units sold and revenue per category. Prices that are
// missing or not numeric count as zero; ids that are not valid ObjectIDs or
// that match no product are skipped.
func (r *StatsRepository) OrderStats(ctx context.Context) ([]models.CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$productItemIds"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "productItemIds", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$productItemIds"},
				{Key: "to", Value: "objectId"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productsCollection},
			{Key: "localField", Value: "productItemIds"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "productItems"},
		}}},
		{{Key: "$unwind", Value: "$productItems"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$productItems.category"},
			{Key: "quantity", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$productItems.price"},
				{Key: "to", Value: "double"},
				{Key: "onError", Value: 0},
				{Key: "onNull", Value: 0},
			}}}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "quantity", Value: 1},
			{Key: "revenue", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}},
	}

	cur, err := r.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}
	stats := []models.CategoryStat{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode order stats: %w", err)
	}
	return stats, nil
}
