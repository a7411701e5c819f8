package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"multipay/apperr"
	"multipay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concludedSession() *models.CheckoutSession {
	session := uniqueSession()
	session.CheckoutStatus.Status = models.StatusConcluded
	session.CustomerData = &models.CustomerData{Name: "Ada", Email: "ada@example.com"}
	return session
}

func TestInitializeUpsell(t *testing.T) {
	f := newFixture(t)
	token := seedSession(t, f, concludedSession())
	f.gateway.intentStatus = "succeeded"
	ctx := context.Background()

	init, err := f.svc.InitializeUpsell(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "upsell-1", init.Option.ID)
	require.NotNil(t, init.Intent)
	assert.Equal(t, int64(5000), init.Intent.Amount)

	stored, err := f.store.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, stored.CheckoutStatus.Upsell)
	assert.Equal(t, models.StatusInitial, stored.CheckoutStatus.Upsell.Status)
	assert.Equal(t, init.Intent.ID, stored.CheckoutStatus.Upsell.PaymentIntentID)
}

func TestAddonInitResponseShape(t *testing.T) {
	f := newFixture(t)
	token := seedSession(t, f, concludedSession())
	f.gateway.intentStatus = "succeeded"

	init, err := f.svc.InitializeUpsell(context.Background(), token)
	require.NoError(t, err)

	raw, err := json.Marshal(init)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Contains(t, body, "offer")
	require.Contains(t, body, "paymentData")

	// clients confirm the charge with the secret under the session payload's keys
	var intent map[string]any
	require.NoError(t, json.Unmarshal(body["paymentData"], &intent))
	assert.Equal(t, init.Intent.ID, intent["id"])
	assert.Equal(t, init.Intent.ClientSecret, intent["client_secret"])
	assert.Equal(t, float64(5000), intent["amount"])
	assert.NotContains(t, intent, "ID")
	assert.NotContains(t, intent, "ClientSecret")
}

func TestInitializeUpsellBeforeConclusion(t *testing.T) {
	f := newFixture(t)
	token := seedSession(t, f, uniqueSession())
	f.gateway.intentStatus = "requires_payment_method"

	_, err := f.svc.InitializeUpsell(context.Background(), token)
	assert.Equal(t, 422, apperr.CodeOf(err))
	assert.Empty(t, f.gateway.createdIntents)
}

func TestInitializeUpsellWithoutStrategy(t *testing.T) {
	f := newFixture(t)
	session := concludedSession()
	session.CheckoutData.Strategy.Upsell = nil
	token := seedSession(t, f, session)
	f.gateway.intentStatus = "succeeded"

	_, err := f.svc.InitializeUpsell(context.Background(), token)
	assert.Equal(t, 422, apperr.CodeOf(err))
}

func TestInitializeDownsellFallsBackToUpsellOffer(t *testing.T) {
	f := newFixture(t)
	session := concludedSession()
	// mirror of the initializer's fallback for sellers without a downsell
	session.CheckoutData.Strategy.Downsell = session.CheckoutData.Strategy.Upsell
	token := seedSession(t, f, session)
	f.gateway.intentStatus = "succeeded"

	init, err := f.svc.InitializeDownsell(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "upsell-1", init.Option.ID)
}

func TestConfirmAddonPayment(t *testing.T) {
	f := newFixture(t)
	session := concludedSession()
	session.CheckoutStatus.Upsell = &models.AddonState{
		ID:              "upsell-1",
		Value:           50,
		PaymentIntentID: "pi_upsell",
		Status:          models.StatusInitial,
	}
	token := seedSession(t, f, session)
	f.gateway.intentStatus = "succeeded"
	ctx := context.Background()

	status, err := f.svc.ConfirmAddonPayment(ctx, token, AddonUpsell)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConcluded, status)

	require.Len(t, f.catalog.registered, 1)
	record := f.catalog.registered[0]
	// the addon sale is scoped to its own charge, not the main one
	assert.Equal(t, "pi_upsell", record.BasicPaymentInfo.PaymentIntent)
	assert.Equal(t, float64(50), record.BasicPaymentInfo.TotalPrice)
	assert.Equal(t, "concluded", record.BasicPaymentInfo.Status)
	assert.Empty(t, record.OrderBump)

	stored, err := f.store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConcluded, stored.CheckoutStatus.Upsell.Status)
}

func TestConfirmAddonWithoutInit(t *testing.T) {
	f := newFixture(t)
	token := seedSession(t, f, concludedSession())
	f.gateway.intentStatus = "succeeded"

	_, err := f.svc.ConfirmAddonPayment(context.Background(), token, AddonDownsell)
	assert.Equal(t, 422, apperr.CodeOf(err))
	assert.Empty(t, f.catalog.registered)
}

func TestConfirmAddonWithoutCustomerData(t *testing.T) {
	f := newFixture(t)
	session := concludedSession()
	session.CustomerData = nil
	session.CheckoutStatus.Upsell = &models.AddonState{ID: "upsell-1", PaymentIntentID: "pi_upsell"}
	token := seedSession(t, f, session)
	f.gateway.intentStatus = "succeeded"

	_, err := f.svc.ConfirmAddonPayment(context.Background(), token, AddonUpsell)
	assert.Equal(t, 422, apperr.CodeOf(err))
}
