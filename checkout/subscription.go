package checkout

import (
	"context"
	"log"

	"multipay/apperr"
	"multipay/models"
	"multipay/pricing"
)

// StartSubscription registers the buyer with the gateway, creates the
// subscription and a setup intent for future off-session charges, and moves
// the session out of pending_data. Returns the setup intent's client secret.
func (s *Service) StartSubscription(ctx context.Context, token string, billing models.CustomerData) (string, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return "", err
	}

	if session.CheckoutData.Offer.PaymentType == models.PaymentUnique {
		return "", apperr.Validation("this offer is a one-time payment, it cannot start a subscription")
	}
	if session.CheckoutStatus.Status == models.StatusInitial {
		return "", apperr.Validation("a subscription was already started for this session")
	}

	customer, err := s.gateway.CustomerByEmail(ctx, billing.Email)
	if err != nil {
		return "", err
	}
	if customer == nil {
		customer, err = s.gateway.CreateCustomer(ctx, billing)
		if err != nil {
			return "", err
		}
	}

	start, err := s.gateway.StartSubscription(ctx, customer.ID, session.CheckoutData.Product.PriceStripeID)
	if err != nil {
		return "", err
	}

	clientSecret, err := s.gateway.CreateSetupIntent(ctx, customer.ID)
	if err != nil {
		return "", err
	}

	session.PaymentData = &models.PaymentData{
		ID:           start.SubscriptionID,
		ClientSecret: clientSecret,
		PaymentType:  models.PaymentRecurrence,
		Amount:       pricing.Cents(session.CheckoutData.Offer.Value),
		LastInvoice:  start.FirstIntentID,
	}
	session.CheckoutStatus.Status = models.StatusInitial
	billingWithID := billing
	billingWithID.ID = customer.ID
	session.CustomerData = &billingWithID

	if err := s.store.Set(ctx, token, session); err != nil {
		return "", err
	}
	return clientSecret, nil
}

// PaymentConfirm confirms the subscription's first invoice charge and then,
// best effort, every order bump's independent charge. A failing bump charge
// is logged and skipped so the remaining ones still get confirmed.
func (s *Service) PaymentConfirm(ctx context.Context, token, paymentMethodID string) error {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return err
	}

	pd := session.PaymentData
	if pd == nil || pd.LastInvoice == "" {
		return apperr.Validation("this payment cannot be confirmed, it was never started")
	}
	if session.CheckoutData.Offer.PaymentType == models.PaymentUnique {
		return apperr.Validation("this operation is meant for subscription sales")
	}
	if session.CustomerData == nil {
		return apperr.Validation("customer data is required to confirm a subscription")
	}

	if err := s.gateway.ConfirmIntent(ctx, pd.LastInvoice, paymentMethodID); err != nil {
		return err
	}

	for _, item := range session.CheckoutStatus.OrderBumpItems {
		if item.PaymentData == nil {
			continue
		}
		if err := s.gateway.ConfirmIntent(ctx, item.PaymentData.ID, paymentMethodID); err != nil {
			log.Printf("PaymentConfirm: order bump %s charge %s confirmation failed: %v",
				item.ID, item.PaymentData.ID, err)
		}
	}
	return nil
}
