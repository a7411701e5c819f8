package checkout

import (
	"context"

	"multipay/apperr"
	"multipay/models"
	"multipay/pixels"
	"multipay/pricing"
)

// ChangeQuantity retargets the session's charge at a new quantity of the main
// offer. Coupon and order-bump portions of the tracked amount are preserved
// exactly.
func (s *Service) ChangeQuantity(ctx context.Context, token string, quantity int) (int, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return 0, err
	}

	if session.CheckoutData.Offer.PaymentType == models.PaymentRecurrence {
		return 0, apperr.Validation("the product quantity of a subscription cannot be changed")
	}
	if quantity < 1 {
		return 0, apperr.Validation("quantity must be at least 1")
	}
	if session.CheckoutStatus.Quantity == quantity {
		return quantity, nil
	}

	pd := session.PaymentData
	if pd == nil || pd.Amount == 0 {
		return 0, apperr.Validation("no payment was started for this session yet")
	}

	var couponDiscount float64
	if session.CheckoutStatus.Coupon != nil {
		couponDiscount = session.CheckoutStatus.Coupon.ValueDiscount
	}

	newAmount, err := pricing.QuantityChange(
		pd.Amount,
		session.CheckoutStatus.Quantity,
		quantity,
		session.CheckoutData.Offer.Value,
		couponDiscount,
	)
	if err != nil {
		return 0, err
	}

	intent, err := s.gateway.UpdateIntentAmount(ctx, pd.ID, newAmount)
	if err != nil {
		return 0, err
	}

	event := pixels.EventIncreaseAmount
	if quantity < session.CheckoutStatus.Quantity {
		event = pixels.EventDecreaseAmount
	}

	pd.Amount = intent.Amount
	session.CheckoutStatus.Quantity = quantity
	if err := s.store.Set(ctx, token, session); err != nil {
		return 0, err
	}

	s.trackEvent(ctx, event, session)
	return quantity, nil
}
