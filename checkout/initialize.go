package checkout

import (
	"context"

	"multipay/models"
	"multipay/pricing"
)

// InitializeSession creates a session for an offer. One-time offers get their
// payment intent up front; subscriptions wait for billing data before any
// charge exists.
func (s *Service) InitializeSession(ctx context.Context, offerID, sellerID string) (string, *models.CheckoutSession, error) {
	checkoutData, err := s.catalog.FetchCheckoutData(ctx, offerID, sellerID)
	if err != nil {
		return "", nil, err
	}

	if checkoutData.Offer.PaymentType == models.PaymentUnique {
		return s.initializeSinglePayment(ctx, checkoutData)
	}
	return s.initializeSubscription(ctx, checkoutData)
}

func (s *Service) initializeSinglePayment(ctx context.Context, checkoutData *models.CheckoutData) (string, *models.CheckoutSession, error) {
	amount, err := pricing.InitialAmount(checkoutData.Offer.Value, 1)
	if err != nil {
		return "", nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, checkoutData.Offer.Currency, "")
	if err != nil {
		return "", nil, err
	}

	// A seller without a dedicated downsell falls back to showing the
	// upsell offer again.
	if checkoutData.Strategy.Downsell == nil {
		checkoutData.Strategy.Downsell = checkoutData.Strategy.Upsell
	}

	session := &models.CheckoutSession{
		CheckoutData: *checkoutData,
		CheckoutStatus: models.CheckoutStatus{
			Status:         models.StatusInitial,
			Quantity:       1,
			OrderBumpItems: []models.OrderBumpItem{},
		},
		PaymentData: &models.PaymentData{
			ID:           intent.ID,
			ClientSecret: intent.ClientSecret,
			PaymentType:  models.PaymentUnique,
			Amount:       intent.Amount,
		},
	}

	token, err := s.store.Create(ctx, session)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

func (s *Service) initializeSubscription(ctx context.Context, checkoutData *models.CheckoutData) (string, *models.CheckoutSession, error) {
	session := &models.CheckoutSession{
		CheckoutData: *checkoutData,
		CheckoutStatus: models.CheckoutStatus{
			Status:         models.StatusPendingData,
			Quantity:       1,
			OrderBumpItems: []models.OrderBumpItem{},
		},
	}

	token, err := s.store.Create(ctx, session)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}
