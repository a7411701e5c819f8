// Package checkout owns the checkout session state machine: session
// initialization, cart mutations that keep the external charge in sync, sale
// finalization against the ledger, and the upsell/downsell chain.
package checkout

import (
	"context"
	"errors"

	"multipay/apperr"
	"multipay/catalog"
	"multipay/models"
	"multipay/payments"
	"multipay/pixels"
	"multipay/sessionstore"
)

// Service drives every session-scoped operation. All collaborators are
// injected once at process start; the service holds no other state.
type Service struct {
	store   *sessionstore.Store
	gateway payments.Gateway
	catalog catalog.Client
	pixels  pixels.Dispatcher
}

func NewService(store *sessionstore.Store, gateway payments.Gateway, cat catalog.Client, dispatcher pixels.Dispatcher) *Service {
	return &Service{
		store:   store,
		gateway: gateway,
		catalog: cat,
		pixels:  dispatcher,
	}
}

// getSession loads a session and refreshes its status from the gateway's
// current view of the charge. A session whose payment succeeded or entered
// processing out of band (e.g. a confirmed card) is reported as such without
// waiting for sale registration.
func (s *Service) getSession(ctx context.Context, token string) (*models.CheckoutSession, error) {
	session, err := s.store.Get(ctx, token)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return nil, apperr.NotFound("checkout session not found")
	}
	if err != nil {
		return nil, err
	}

	pd := session.PaymentData
	if pd == nil || (pd.PaymentType == models.PaymentRecurrence && pd.LastInvoice == "") {
		return session, nil
	}

	intentID := pd.ID
	if pd.PaymentType == models.PaymentRecurrence {
		intentID = pd.LastInvoice
	}
	intentStatus, err := s.gateway.IntentStatus(ctx, intentID)
	if err != nil {
		return nil, err
	}

	switch mapped := models.StatusFromIntent(intentStatus); mapped {
	case models.StatusConcluded, models.StatusProcessing:
		session.CheckoutStatus.Status = mapped
	}
	return session, nil
}

// GetSession is the read operation exposed to clients.
func (s *Service) GetSession(ctx context.Context, token string) (*models.CheckoutSession, error) {
	return s.getSession(ctx, token)
}

// trackEvent fires a pixel event when the buyer consented to tracking.
// Dispatch failures never reach the caller.
func (s *Service) trackEvent(ctx context.Context, kind string, session *models.CheckoutSession) {
	meta := session.CustomerMetadata
	if !meta.AcceptedCookies || meta.UserIPAddress == "" {
		return
	}
	s.pixels.SendEvent(ctx, pixels.Event{
		Kind:     kind,
		Metadata: meta,
		Checkout: session.CheckoutData,
	})
}
