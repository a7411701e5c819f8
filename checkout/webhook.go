package checkout

import (
	"context"
	"log"

	"multipay/apperr"
	"multipay/models"
)

// Gateway webhook event kinds the reconciliation path reacts to.
const (
	eventIntentSucceeded = "payment_intent.succeeded"
	eventIntentFailed    = "payment_intent.payment_failed"
	eventInvoicePaid     = "invoice.paid"
	eventInvoiceFailed   = "invoice.payment_failed"
)

// UpdateSaleStatus reconciles a gateway webhook into the ledger. The
// signature is verified before anything is parsed; unverifiable payloads
// fail the request. Payment-intent events address the ledger record by
// charge id directly, invoice events resolve the underlying charge first.
// Every other event kind is ignored.
func (s *Service) UpdateSaleStatus(ctx context.Context, signature string, payload []byte) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case eventIntentSucceeded, eventIntentFailed:
		status := models.StatusFromIntent(event.ObjectStatus)
		return s.catalog.UpdateSaleStatus(ctx, event.ObjectID, status.String())

	case eventInvoicePaid, eventInvoiceFailed:
		if event.ObjectID == "" {
			log.Printf("UpdateSaleStatus: %s event carries no invoice id", event.Type)
			return apperr.Gateway("could not extract the invoice from the received event")
		}
		invoice, err := s.gateway.RetrieveInvoice(ctx, event.ObjectID)
		if err != nil {
			return err
		}
		return s.catalog.UpdateSubscriptionStatus(ctx, invoice.PaymentIntentID, event.ObjectID)

	default:
		return nil
	}
}
