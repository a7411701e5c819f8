// Package subscription backs the customer-facing subscription management
// portal: viewing an active subscription, swapping its card, and cancelling.
package subscription

import (
	"context"

	"multipay/apperr"
	"multipay/catalog"
	"multipay/models"
	"multipay/payments"
)

// Details is the full management view of one subscription.
type Details struct {
	Customer       payments.Customer        `json:"customer"`
	Product        models.Product           `json:"product"`
	Subscription   payments.Subscription    `json:"subscription"`
	PaymentMethods []payments.PaymentMethod `json:"paymentMethods"`
	Invoices       []payments.Invoice       `json:"invoices"`
}

type Service struct {
	gateway payments.Gateway
	catalog catalog.Client
}

func NewService(gateway payments.Gateway, catalogClient catalog.Client) *Service {
	return &Service{gateway: gateway, catalog: catalogClient}
}

// management resolves a management token and checks it belongs to the
// authenticated customer. Every operation in this package starts here.
func (s *Service) management(ctx context.Context, token, customerID string) (*catalog.ManagementSession, error) {
	mgmt, err := s.catalog.FetchSubscriptionManagementSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if customerID != "" && mgmt.CustomerID != customerID {
		return nil, apperr.Unauthorized("this subscription belongs to another customer")
	}
	return mgmt, nil
}

// resolve turns a management token into the customer/subscription pair it
// refers to.
func (s *Service) resolve(ctx context.Context, token, customerID string) (*catalog.ManagementSession, *payments.Subscription, error) {
	mgmt, err := s.management(ctx, token, customerID)
	if err != nil {
		return nil, nil, err
	}

	priceID := mgmt.Product.PriceStripeID
	if priceID == "" {
		priceID, err = s.gateway.PriceForProduct(ctx, mgmt.Product.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	sub, err := s.gateway.SubscriptionByPrice(ctx, mgmt.CustomerID, priceID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, apperr.NotFound("no active subscription for this product")
	}
	return mgmt, sub, nil
}

func (s *Service) FetchSubscription(ctx context.Context, token, customerID string) (*Details, error) {
	mgmt, sub, err := s.resolve(ctx, token, customerID)
	if err != nil {
		return nil, err
	}

	customer, err := s.gateway.RetrieveCustomer(ctx, mgmt.CustomerID)
	if err != nil {
		return nil, err
	}
	methods, err := s.gateway.CustomerPaymentMethods(ctx, mgmt.CustomerID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.gateway.ListInvoices(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	return &Details{
		Customer:       *customer,
		Product:        mgmt.Product,
		Subscription:   *sub,
		PaymentMethods: methods,
		Invoices:       invoices,
	}, nil
}

// CreateSetupIntent opens a card-collection flow for the subscription's
// customer and returns its client secret.
func (s *Service) CreateSetupIntent(ctx context.Context, token, customerID string) (string, error) {
	mgmt, err := s.management(ctx, token, customerID)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateSetupIntent(ctx, mgmt.CustomerID)
}

func (s *Service) UpdatePaymentMethod(ctx context.Context, token, customerID, paymentMethodID string) error {
	if paymentMethodID == "" {
		return apperr.Validation("paymentMethodId is required")
	}

	_, sub, err := s.resolve(ctx, token, customerID)
	if err != nil {
		return err
	}
	return s.gateway.UpdateSubscriptionPaymentMethod(ctx, sub.ID, paymentMethodID)
}

func (s *Service) CancelSubscription(ctx context.Context, token, customerID string) error {
	_, sub, err := s.resolve(ctx, token, customerID)
	if err != nil {
		return err
	}
	return s.gateway.CancelSubscription(ctx, sub.ID)
}
