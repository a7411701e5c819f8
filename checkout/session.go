package checkout

import (
	"context"

	"multipay/apperr"
	"multipay/models"
	"multipay/pixels"
)

// AcceptTracking records the buyer's tracking consent and fires the
// checkout-initiated event.
func (s *Service) AcceptTracking(ctx context.Context, token string, meta models.CustomerMetadata) error {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return err
	}

	if hasPixel(session.CheckoutData.Pixels, "google") && meta.GoogleClientID == "" {
		return apperr.Validation("this offer tracks with a google pixel, googleClientId is required")
	}

	meta.AcceptedCookies = true
	session.CustomerMetadata = meta
	if err := s.store.Set(ctx, token, session); err != nil {
		return err
	}

	s.pixels.SendEvent(ctx, pixels.Event{
		Kind:     pixels.EventInitiateCheckout,
		Metadata: meta,
		Checkout: session.CheckoutData,
	})
	return nil
}

// UpdateCustomerData merges a billing-data patch into the session and pushes
// it to the gateway's customer record when one exists.
func (s *Service) UpdateCustomerData(ctx context.Context, token string, patch models.CustomerData) (*models.CustomerData, error) {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.CustomerData == nil {
		return nil, apperr.Validation("customer data was never provided for this session")
	}

	merged := mergeCustomer(*session.CustomerData, patch)
	if merged.ID != "" {
		if err := s.gateway.UpdateCustomer(ctx, merged.ID, merged); err != nil {
			return nil, err
		}
	}

	session.CustomerData = &merged
	if err := s.store.Set(ctx, token, session); err != nil {
		return nil, err
	}
	return &merged, nil
}

func mergeCustomer(base, patch models.CustomerData) models.CustomerData {
	if patch.Name != "" {
		base.Name = patch.Name
	}
	if patch.Email != "" {
		base.Email = patch.Email
	}
	if patch.Phone != "" {
		base.Phone = patch.Phone
	}
	if patch.Address != "" {
		base.Address = patch.Address
	}
	if patch.City != "" {
		base.City = patch.City
	}
	if patch.State != "" {
		base.State = patch.State
	}
	if patch.Country != "" {
		base.Country = patch.Country
	}
	if patch.PostalCode != "" {
		base.PostalCode = patch.PostalCode
	}
	return base
}

func hasPixel(configured []models.Pixel, pixelType string) bool {
	for _, pixel := range configured {
		if pixel.Type == pixelType {
			return true
		}
	}
	return false
}
