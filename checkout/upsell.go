package checkout

import (
	"context"

	"multipay/apperr"
	"multipay/models"
	"multipay/payments"
	"multipay/pricing"
)

// AddonKind selects which post-purchase offer a chain operation targets.
type AddonKind string

const (
	AddonUpsell   AddonKind = "upsell"
	AddonDownsell AddonKind = "downsell"
)

// AddonInit is what the client needs to present and pay a chained offer.
type AddonInit struct {
	Option *models.UpsellOption `json:"offer"`
	Intent *payments.Intent     `json:"paymentData"`
}

// InitializeUpsell opens the upsell sub-session once the main purchase has
// concluded, backed by its own independent charge.
func (s *Service) InitializeUpsell(ctx context.Context, token string) (*AddonInit, error) {
	return s.initializeAddon(ctx, token, AddonUpsell)
}

// InitializeDownsell is the downsell counterpart of InitializeUpsell.
func (s *Service) InitializeDownsell(ctx context.Context, token string) (*AddonInit, error) {
	return s.initializeAddon(ctx, token, AddonDownsell)
}

func (s *Service) initializeAddon(ctx context.Context, token string, kind AddonKind) (*AddonInit, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return nil, err
	}

	option := session.CheckoutData.Strategy.Upsell
	if kind == AddonDownsell {
		option = session.CheckoutData.Strategy.Downsell
	}
	if option == nil {
		return nil, apperr.Validation("this offer has no post-purchase sales strategy")
	}
	if session.CheckoutStatus.Status != models.StatusConcluded {
		return nil, apperr.Validation("the main session has not been processed yet")
	}

	intent, err := s.gateway.CreateIntent(ctx, pricing.Cents(option.Offer.Value), option.Offer.Currency, "")
	if err != nil {
		return nil, err
	}

	state := &models.AddonState{
		ID:              option.ID,
		Value:           option.Offer.Value,
		PaymentIntentID: intent.ID,
		Status:          models.StatusInitial,
	}
	if kind == AddonUpsell {
		session.CheckoutStatus.Upsell = state
	} else {
		session.CheckoutStatus.Downsell = state
	}

	if err := s.store.Set(ctx, token, session); err != nil {
		return nil, err
	}
	return &AddonInit{Option: option, Intent: intent}, nil
}

// ConfirmAddonPayment polls the chained charge, registers its sale with the
// ledger and records the sub-session's resulting status.
func (s *Service) ConfirmAddonPayment(ctx context.Context, token string, kind AddonKind) (models.Status, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return "", err
	}

	if session.CustomerData == nil {
		return "", apperr.Validation("this sale cannot be registered without the customer data")
	}

	addon := session.CheckoutStatus.Upsell
	if kind == AddonDownsell {
		addon = session.CheckoutStatus.Downsell
	}
	if addon == nil {
		return "", apperr.Validation("this session has no " + string(kind) + " payment in progress")
	}

	intentStatus, err := s.gateway.IntentStatus(ctx, addon.PaymentIntentID)
	if err != nil {
		return "", err
	}
	status := models.StatusFromIntent(intentStatus)

	record := &models.SaleRecord{
		BasicPaymentInfo: models.SaleBasicInfo{
			LinkID:        session.CheckoutData.OfferID,
			PaymentIntent: addon.PaymentIntentID,
			PaymentType:   session.CheckoutData.Offer.PaymentType,
			ProductID:     session.CheckoutData.Product.ID,
			ProfileCode:   session.CheckoutData.SellerID,
			Status:        status.String(),
			TotalPrice:    addon.Value,
		},
		OrderBump:           []models.SaleOrderBump{},
		PersonalPaymentInfo: salePersonalInfo(*session.CustomerData),
	}
	if coupon := session.CheckoutStatus.Coupon; coupon != nil {
		record.BasicPaymentInfo.Coupon = coupon.Code
		record.BasicPaymentInfo.Discount = coupon.ValueDiscount
	}

	if err := s.catalog.RegisterSale(ctx, record); err != nil {
		return "", err
	}

	addon.Status = status
	if err := s.store.Set(ctx, token, session); err != nil {
		return "", err
	}
	return status, nil
}
