package checkout

import (
	"context"

	"multipay/apperr"
	"multipay/models"
	"multipay/pixels"
	"multipay/pricing"
)

// AddOrderBump attaches one of the offer's add-on options to the session.
// One-time sessions grow their shared charge; subscriptions get an
// independent charge scoped to the already-registered customer.
func (s *Service) AddOrderBump(ctx context.Context, token, offerID string) error {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return err
	}

	if session.PaymentData == nil {
		return apperr.Validation("this session is not processing any payment yet")
	}
	if len(session.CheckoutData.Strategy.OrderBump) == 0 {
		return apperr.Validation("this offer has no additional items")
	}
	for _, item := range session.CheckoutStatus.OrderBumpItems {
		if item.ID == offerID {
			return apperr.Validation("order bump item already added")
		}
	}

	option := findBumpOption(session.CheckoutData.Strategy.OrderBump, offerID)
	if option == nil {
		return apperr.NotFound("order bump option not found in this offer")
	}

	if session.CheckoutData.Offer.PaymentType == models.PaymentUnique {
		pd := session.PaymentData
		if pd.Amount == 0 {
			return apperr.Validation("no payment was started for this session yet")
		}

		newAmount, err := pricing.ApplyOrderBump(pd.Amount, option.Offer.Value)
		if err != nil {
			return err
		}
		intent, err := s.gateway.UpdateIntentAmount(ctx, pd.ID, newAmount)
		if err != nil {
			return err
		}

		pd.Amount = intent.Amount
		session.CheckoutStatus.OrderBumpItems = append(session.CheckoutStatus.OrderBumpItems,
			models.OrderBumpItem{ID: option.ID})
	} else {
		customer := session.CustomerData
		if customer == nil || customer.ID == "" {
			return apperr.Validation("the customer must be registered before adding an order bump to a subscription")
		}
		if option.Offer.PaymentType != models.PaymentUnique {
			return apperr.Validation("only one-time order bumps can be attached to a subscription")
		}

		intent, err := s.gateway.CreateIntent(ctx, pricing.Cents(option.Offer.Value), option.Offer.Currency, customer.ID)
		if err != nil {
			return err
		}

		session.CheckoutStatus.OrderBumpItems = append(session.CheckoutStatus.OrderBumpItems,
			models.OrderBumpItem{
				ID: option.ID,
				PaymentData: &models.PaymentData{
					ID:           intent.ID,
					ClientSecret: intent.ClientSecret,
					PaymentType:  models.PaymentUnique,
					Amount:       intent.Amount,
				},
			})
	}

	if err := s.store.Set(ctx, token, session); err != nil {
		return err
	}

	s.trackEvent(ctx, pixels.EventOrderBumpAdd, session)
	return nil
}

// RemoveOrderBump detaches a previously added add-on and gives its value
// back: by shrinking the shared charge for one-time sessions, or cancelling
// the independent charge for subscriptions.
func (s *Service) RemoveOrderBump(ctx context.Context, token, offerID string) error {
	session, err := s.getSession(ctx, token)
	if err != nil {
		return err
	}

	if session.PaymentData == nil {
		return apperr.Validation("this session is not processing any payment yet")
	}
	if len(session.CheckoutData.Strategy.OrderBump) == 0 {
		return apperr.Validation("this offer has no additional items")
	}

	var added *models.OrderBumpItem
	for i := range session.CheckoutStatus.OrderBumpItems {
		if session.CheckoutStatus.OrderBumpItems[i].ID == offerID {
			added = &session.CheckoutStatus.OrderBumpItems[i]
			break
		}
	}
	if added == nil {
		return apperr.Validation("order bump item not found in this session")
	}

	option := findBumpOption(session.CheckoutData.Strategy.OrderBump, offerID)
	if option == nil {
		return apperr.NotFound("order bump option not found in this offer")
	}

	if session.CheckoutData.Offer.PaymentType == models.PaymentUnique {
		pd := session.PaymentData
		if pd.Amount == 0 {
			return apperr.Validation("no payment was started for this session yet")
		}

		newAmount, err := pricing.RemoveOrderBump(pd.Amount, option.Offer.Value)
		if err != nil {
			return err
		}
		intent, err := s.gateway.UpdateIntentAmount(ctx, pd.ID, newAmount)
		if err != nil {
			return err
		}
		pd.Amount = intent.Amount
	} else {
		if added.PaymentData == nil {
			return apperr.Validation("this order bump carries no independent charge")
		}
		if err := s.gateway.CancelIntent(ctx, added.PaymentData.ID); err != nil {
			return err
		}
	}

	session.CheckoutStatus.OrderBumpItems = removeBumpItem(session.CheckoutStatus.OrderBumpItems, offerID)
	if err := s.store.Set(ctx, token, session); err != nil {
		return err
	}

	s.trackEvent(ctx, pixels.EventOrderBumpRemove, session)
	return nil
}

func findBumpOption(options []models.OrderBumpOption, offerID string) *models.OrderBumpOption {
	for i := range options {
		if options[i].ID == offerID {
			return &options[i]
		}
	}
	return nil
}

func removeBumpItem(items []models.OrderBumpItem, offerID string) []models.OrderBumpItem {
	out := items[:0]
	for _, item := range items {
		if item.ID != offerID {
			out = append(out, item)
		}
	}
	return out
}
