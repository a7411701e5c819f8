package checkout

import (
	"context"

	"multipay/apperr"
	"multipay/models"
)

// RegisterSale polls the charge backing the session, pushes the finalized
// sale to the ledger and moves the session to the status the gateway
// reported.
func (s *Service) RegisterSale(ctx context.Context, token string, personal models.CustomerData) (models.Status, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return "", err
	}

	pd := session.PaymentData
	if pd == nil {
		return "", apperr.Validation("this sale cannot be registered, it was never started")
	}
	isRecurrence := pd.PaymentType == models.PaymentRecurrence
	if isRecurrence && session.CustomerData == nil {
		return "", apperr.Validation("this sale cannot be registered without the customer data")
	}

	intentID := pd.ID
	if isRecurrence {
		intentID = pd.LastInvoice
	}
	intentStatus, err := s.gateway.IntentStatus(ctx, intentID)
	if err != nil {
		return "", err
	}
	status := models.StatusFromIntent(intentStatus)

	saleBumps, bumpTotal := s.saleOrderBumps(session)

	basic := models.SaleBasicInfo{
		LinkID:        session.CheckoutData.OfferID,
		PaymentIntent: intentID,
		PaymentType:   session.CheckoutData.Offer.PaymentType,
		ProductID:     session.CheckoutData.Product.ID,
		ProfileCode:   session.CheckoutData.SellerID,
		Status:        status.String(),
		TotalPrice:    session.CheckoutData.Offer.Value + bumpTotal,
	}
	if coupon := session.CheckoutStatus.Coupon; coupon != nil {
		basic.Coupon = coupon.Code
		basic.Discount = coupon.ValueDiscount
	}
	if isRecurrence {
		basic.SubscriptionID = pd.ID
	}

	// The subscription flow already collected the authoritative identity;
	// one-time sales take it from the register request.
	identity := personal
	if isRecurrence {
		identity = *session.CustomerData
	}

	record := &models.SaleRecord{
		BasicPaymentInfo:    basic,
		OrderBump:           saleBumps,
		PersonalPaymentInfo: salePersonalInfo(identity),
	}
	if err := s.catalog.RegisterSale(ctx, record); err != nil {
		return "", err
	}

	session.CheckoutStatus.Status = status
	if !isRecurrence {
		session.CustomerData = &personal
	}
	if err := s.store.Set(ctx, token, session); err != nil {
		return "", err
	}
	return status, nil
}

// saleOrderBumps resolves the added bump items back to their catalog options
// and totals their values for the ledger payload.
func (s *Service) saleOrderBumps(session *models.CheckoutSession) ([]models.SaleOrderBump, float64) {
	bumps := make([]models.SaleOrderBump, 0, len(session.CheckoutStatus.OrderBumpItems))
	var total float64
	for _, item := range session.CheckoutStatus.OrderBumpItems {
		option := findBumpOption(session.CheckoutData.Strategy.OrderBump, item.ID)
		if option == nil {
			continue
		}
		bumps = append(bumps, models.SaleOrderBump{
			ProductID: option.Product.ID,
			Value:     option.Offer.Value,
		})
		total += option.Offer.Value
	}
	return bumps, total
}

func salePersonalInfo(identity models.CustomerData) models.SalePersonalInfo {
	address := models.SaleAddress{
		Address: identity.Address,
		City:    identity.City,
		State:   identity.State,
		Country: identity.Country,
		ZipCode: identity.PostalCode,
	}
	return models.SalePersonalInfo{
		Name:            identity.Name,
		Email:           identity.Email,
		PersonalAddress: address,
		ShippingAddress: address,
	}
}
