package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxe-backend/internal/models"
)

func TestCreatePaymentIntent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 19.99}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"clientSecret": "pi_secret_test"}, decode[map[string]string](t, rec))
	assert.Equal(t, int64(1999), env.gateway.amount)
	assert.Equal(t, "usd", env.gateway.currency)
}

func TestCreatePaymentIntent_Errors(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []any{map[string]any{"price": 0}, map[string]any{"price": -3}, `{}`} {
		rec := env.do(t, http.MethodPost, "/create-payment-intent", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Zero(t, env.gateway.amount, "gateway must not be called for invalid prices")

	env.gateway.err = errors.New("card_declined")
	rec := env.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 5}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", messageOf(t, rec))
}

func seedCart(env *testEnv, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := primitive.NewObjectID()
		env.carts.items = append(env.carts.items, models.CartItem{ID: id, Email: userEmail, ProductID: "p"})
		ids = append(ids, id.Hex())
	}
	return ids
}

func TestCreatePayment_ClearsListedCartItems(t *testing.T) {
	env := newTestEnv(t)
	ids := seedCart(env, 3)

	rec := env.do(t, http.MethodPost, "/payments", map[string]any{
		"email":         userEmail,
		"price":         30,
		"transactionId": "pi_123",
		"cartIds":       ids[:2],
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[models.PaymentResult](t, rec)
	assert.True(t, res.PaymentResult.Acknowledged)
	assert.Equal(t, int64(2), res.DeleteResult.DeletedCount)
	assert.Equal(t, 1, env.payments.count())

	require.Len(t, env.carts.items, 1)
	assert.Equal(t, ids[2], env.carts.items[0].ID.Hex())
}

func TestCreatePayment_RejectsBadCartIDs(t *testing.T) {
	cases := map[string]any{
		"missing":    map[string]any{"email": userEmail, "price": 10},
		"not array":  `{"email":"user@example.com","price":10,"cartIds":"abc"}`,
		"null":       `{"email":"user@example.com","price":10,"cartIds":null}`,
		"object ids": `{"email":"user@example.com","price":10,"cartIds":{"0":"abc"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			seedCart(env, 2)

			rec := env.do(t, http.MethodPost, "/payments", body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, errCartIDs, messageOf(t, rec))
			assert.Zero(t, env.payments.count())
			assert.Len(t, env.carts.items, 2)
		})
	}
}

func TestCreatePayment_MalformedCartIDWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ids := seedCart(env, 1)

	rec := env.do(t, http.MethodPost, "/payments", map[string]any{
		"email":   userEmail,
		"price":   10,
		"cartIds": []string{ids[0], "bogus"},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", messageOf(t, rec))
	assert.Zero(t, env.payments.count())
	assert.Len(t, env.carts.items, 1)
}

func TestCreatePayment_EmptyCartIDs(t *testing.T) {
	env := newTestEnv(t)
	seedCart(env, 1)

	rec := env.do(t, http.MethodPost, "/payments", map[string]any{
		"email":   userEmail,
		"price":   0,
		"cartIds": []string{},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decode[models.PaymentResult](t, rec).DeleteResult.DeletedCount)
	assert.Len(t, env.carts.items, 1)
}

func TestListPayments(t *testing.T) {
	env := newTestEnv(t)
	env.payments.payments = []models.Payment{
		{Email: userEmail, TransactionID: "pi_1"},
		{Email: adminEmail, TransactionID: "pi_2"},
	}

	rec := env.do(t, http.MethodGet, "/payments/"+userEmail, nil, env.token(t, userEmail))
	require.Equal(t, http.StatusOK, rec.Code)
	payments := decode[[]models.Payment](t, rec)
	require.Len(t, payments, 1)
	assert.Equal(t, "pi_1", payments[0].TransactionID)
}

func TestManageBookings(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, adminEmail)
	id := primitive.NewObjectID().Hex()

	rec := env.do(t, http.MethodPatch, "/manage-bookings/"+id, map[string]string{"status": models.StatusCompleted}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "status": "completed"}, decode[map[string]any](t, rec))
	assert.Equal(t, models.StatusCompleted, env.payments.statuses[id])

	rec = env.do(t, http.MethodPatch, "/manage-bookings/"+id, map[string]string{"status": "shipped"}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.StatusCompleted, env.payments.statuses[id])

	rec = env.do(t, http.MethodDelete, "/manage-bookings/"+id, nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": false}, decode[map[string]any](t, rec))
}
