package checkout

import (
	"context"
	"testing"

	"multipay/apperr"
	"multipay/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookIntentSucceeded(t *testing.T) {
	f := newFixture(t)
	f.gateway.webhookEvent = &payments.Event{
		Type:         "payment_intent.succeeded",
		ObjectID:     "pi_123",
		ObjectStatus: "succeeded",
	}

	err := f.svc.UpdateSaleStatus(context.Background(), "sig", []byte(`{}`))
	require.NoError(t, err)

	require.Len(t, f.catalog.saleStatusCalls, 1)
	assert.Equal(t, saleStatusCall{"pi_123", "concluded"}, f.catalog.saleStatusCalls[0])
	assert.Empty(t, f.catalog.subscriptionUpdates)
}

func TestWebhookIntentFailed(t *testing.T) {
	f := newFixture(t)
	f.gateway.webhookEvent = &payments.Event{
		Type:         "payment_intent.payment_failed",
		ObjectID:     "pi_123",
		ObjectStatus: "requires_payment_method",
	}

	err := f.svc.UpdateSaleStatus(context.Background(), "sig", []byte(`{}`))
	require.NoError(t, err)

	require.Len(t, f.catalog.saleStatusCalls, 1)
	assert.Equal(t, saleStatusCall{"pi_123", "requires_payment"}, f.catalog.saleStatusCalls[0])
}

func TestWebhookInvoicePaid(t *testing.T) {
	f := newFixture(t)
	f.gateway.webhookEvent = &payments.Event{
		Type:     "invoice.paid",
		ObjectID: "in_55",
	}
	f.gateway.invoice = &payments.Invoice{ID: "in_55", PaymentIntentID: "pi_inv"}

	err := f.svc.UpdateSaleStatus(context.Background(), "sig", []byte(`{}`))
	require.NoError(t, err)

	require.Len(t, f.catalog.subscriptionUpdates, 1)
	assert.Equal(t, saleStatusCall{"pi_inv", "in_55"}, f.catalog.subscriptionUpdates[0])
	assert.Empty(t, f.catalog.saleStatusCalls)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	f := newFixture(t)
	f.gateway.webhookEvent = &payments.Event{Type: "charge.refunded", ObjectID: "ch_1"}

	err := f.svc.UpdateSaleStatus(context.Background(), "sig", []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, f.catalog.saleStatusCalls)
	assert.Empty(t, f.catalog.subscriptionUpdates)
}

func TestWebhookBadSignature(t *testing.T) {
	f := newFixture(t)
	f.gateway.webhookErr = apperr.Unauthorized("webhook signature verification failed")

	err := f.svc.UpdateSaleStatus(context.Background(), "bad", []byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, 401, apperr.CodeOf(err))
	assert.Empty(t, f.catalog.saleStatusCalls)
	assert.Empty(t, f.catalog.subscriptionUpdates)
}
