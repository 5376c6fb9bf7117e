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

type PaymentRepository struct {
	payments *mongo.Collection
	carts    *mongo.Collection
}

// ListByEmail returns the user's payments, latest first.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	payments, err := findAll[models.Payment](ctx, r.payments, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListBookings returns every payment, latest first.
func (r *PaymentRepository) ListBookings(ctx context.Context) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	payments, err := findAll[models.Payment](ctx, r.payments, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return payments, nil
}

// Create records a payment and removes the cart items it paid for.
//
// The insert and the cart cleanup are separate writes. The payment is stored
// with cartsCleared=false and flipped once the cleanup succeeds, so a crash in
// between is repaired by ResumeCartCleanup.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (models.PaymentResult, error) {
	cartIDs, err := parseIDs(p.CartIDs)
	if err != nil {
		return models.PaymentResult{}, err
	}

	p.ID = primitive.NilObjectID
	p.CartsCleared = false
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if p.ProductItemIDs == nil {
		p.ProductItemIDs = []string{}
	}

	ins, err := r.payments.InsertOne(ctx, p)
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	del, err := r.clearCarts(ctx, ins.InsertedID, cartIDs)
	if err != nil {
		return models.PaymentResult{}, err
	}

	return models.PaymentResult{
		PaymentResult: insertResult(ins),
		DeleteResult:  deleteResult(del),
	}, nil
}

func (r *PaymentRepository) clearCarts(ctx context.Context, paymentID any, cartIDs []primitive.ObjectID) (*mongo.DeleteResult, error) {
	del, err := r.carts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": cartIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to delete paid cart items: %w", err)
	}
	_, err = r.payments.UpdateOne(ctx, bson.M{"_id": paymentID}, bson.M{"$set": bson.M{"cartsCleared": true}})
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment carts cleared: %w", err)
	}
	return del, nil
}

// ResumeCartCleanup finishes the cart cleanup of payments interrupted
// between their two writes and reports how many payments it repaired.
func (r *PaymentRepository) ResumeCartCleanup(ctx context.Context) (int, error) {
	pending, err := findAll[models.Payment](ctx, r.payments, bson.M{"cartsCleared": false})
	if err != nil {
		return 0, fmt.Errorf("failed to find uncleared payments: %w", err)
	}

	repaired := 0
	for _, p := range pending {
		cartIDs, err := parseIDs(p.CartIDs)
		if err != nil {
			return repaired, fmt.Errorf("payment %s: %w", p.ID.Hex(), err)
		}
		if _, err := r.clearCarts(ctx, p.ID, cartIDs); err != nil {
			return repaired, fmt.Errorf("payment %s: %w", p.ID.Hex(), err)
		}
		repaired++
	}
	return repaired, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id, status string) (models.UpdateResult, error) {
	res, err := updateByID(ctx, r.payments, id, bson.M{"status": status})
	if err != nil {
		return res, fmt.Errorf("failed to update booking status: %w", err)
	}
	return res, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	res, err := deleteByID(ctx, r.payments, id)
	if err != nil {
		return res, fmt.Errorf("failed to delete booking: %w", err)
	}
	return res, nil
}
