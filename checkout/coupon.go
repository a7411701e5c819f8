package checkout

import (
	"context"

	"multipay/apperr"
	"multipay/models"
	"multipay/pixels"
	"multipay/pricing"
)

// AddCoupon validates a coupon against the catalog and folds its discount
// into the session's charge. Coupons apply to one-time offers only.
func (s *Service) AddCoupon(ctx context.Context, token, code string) (*models.Coupon, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.CheckoutData.Offer.PaymentType == models.PaymentRecurrence {
		return nil, apperr.Validation("coupons cannot be applied to recurring offers")
	}
	pd := session.PaymentData
	if pd == nil || pd.Amount == 0 {
		return nil, apperr.Validation("no payment was started for this session yet")
	}
	if session.CheckoutStatus.Coupon != nil {
		return nil, apperr.Validation("a coupon is already applied to this session")
	}

	coupon, err := s.catalog.FetchDiscountCoupon(ctx, session.CheckoutData.OfferID, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperr.Validation("invalid coupon")
	}

	newAmount, err := pricing.ApplyCoupon(pd.Amount, coupon.ValueDiscount)
	if err != nil {
		return nil, err
	}
	intent, err := s.gateway.UpdateIntentAmount(ctx, pd.ID, newAmount)
	if err != nil {
		return nil, err
	}

	pd.Amount = intent.Amount
	session.CheckoutStatus.Coupon = coupon
	if err := s.store.Set(ctx, token, session); err != nil {
		return nil, err
	}

	s.trackEvent(ctx, pixels.EventCouponAdd, session)
	return coupon, nil
}

// RemoveCoupon credits the active coupon's discount back to the charge.
func (s *Service) RemoveCoupon(ctx context.Context, token string) error {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return err
	}

	if session.CheckoutData.Offer.PaymentType == models.PaymentRecurrence {
		return apperr.Validation("recurring offers have no coupons")
	}
	pd := session.PaymentData
	if pd == nil || pd.Amount == 0 {
		return apperr.Validation("no payment was started for this session yet")
	}
	coupon := session.CheckoutStatus.Coupon
	if coupon == nil {
		return apperr.Validation("no coupon was applied to this session")
	}

	newAmount, err := pricing.RemoveCoupon(pd.Amount, coupon.ValueDiscount)
	if err != nil {
		return err
	}
	intent, err := s.gateway.UpdateIntentAmount(ctx, pd.ID, newAmount)
	if err != nil {
		return err
	}

	pd.Amount = intent.Amount
	session.CheckoutStatus.Coupon = nil
	if err := s.store.Set(ctx, token, session); err != nil {
		return err
	}

	s.trackEvent(ctx, pixels.EventCouponRemove, session)
	return nil
}
