package sessionstore

import (
	"context"
	"testing"
	"time"

	"multipay/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb), mr
}

func sampleSession() *models.CheckoutSession {
	return &models.CheckoutSession{
		CheckoutData: models.CheckoutData{
			OfferID:  "offer-1",
			SellerID: "seller-1",
			Offer: models.Offer{
				PaymentType: models.PaymentUnique,
				Name:        "Course",
				Value:       100,
				Currency:    "usd",
			},
		},
		CheckoutStatus: models.CheckoutStatus{
			Status:   models.StatusInitial,
			Quantity: 1,
		},
		PaymentData: &models.PaymentData{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			PaymentType:  models.PaymentUnique,
			Amount:       10000,
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, sampleSession())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "offer-1", got.CheckoutData.OfferID)
	assert.Equal(t, models.StatusInitial, got.CheckoutStatus.Status)
	assert.Equal(t, int64(10000), got.PaymentData.Amount)
}

func TestGetUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRestartsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, sampleSession())
	require.NoError(t, err)

	// halfway to expiry, a write pushes the deadline out again
	mr.FastForward(TTL / 2)

	session, err := store.Get(ctx, token)
	require.NoError(t, err)
	session.CheckoutStatus.Quantity = 2
	require.NoError(t, store.Set(ctx, token, session))

	mr.FastForward(TTL - time.Minute)

	got, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CheckoutStatus.Quantity)
}

func TestExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, sampleSession())
	require.NoError(t, err)

	mr.FastForward(TTL + time.Second)

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}
