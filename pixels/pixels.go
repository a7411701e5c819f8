// Package pixels dispatches checkout tracking events to the pixel providers
// configured on an offer. Dispatch is fire-and-forget: failures are logged
// and never propagate to the operation that triggered the event.
package pixels

import (
	"context"
	"log"

	"multipay/models"
)

// Event kinds emitted by the checkout state machine.
const (
	EventInitiateCheckout = "initiate_checkout"
	EventCouponAdd        = "coupon_add"
	EventCouponRemove     = "coupon_remove"
	EventOrderBumpAdd     = "order_bump_add"
	EventOrderBumpRemove  = "order_bump_remove"
	EventIncreaseAmount   = "increase_amount"
	EventDecreaseAmount   = "decrease_amount"
)

// Event is one tracking occurrence with the context providers need.
type Event struct {
	Kind     string
	Metadata models.CustomerMetadata
	Checkout models.CheckoutData
}

// Dispatcher is what the checkout core depends on.
type Dispatcher interface {
	SendEvent(ctx context.Context, event Event)
}

// Sender is one pixel provider. Dispatch picks the sender whose Supports
// matches the configured pixel's provider tag.
type Sender interface {
	Supports(pixelType string) bool
	Send(ctx context.Context, event Event, pixel models.Pixel) error
}

type Service struct {
	senders []Sender
}

func NewService(senders ...Sender) *Service {
	return &Service{senders: senders}
}

func (s *Service) SendEvent(ctx context.Context, event Event) {
	if len(event.Checkout.Pixels) == 0 {
		return
	}

	for _, pixel := range event.Checkout.Pixels {
		sender := s.senderFor(pixel.Type)
		if sender == nil {
			log.Printf("pixels: no sender registered for provider %q", pixel.Type)
			continue
		}

		// The measurement protocol needs a client id to attribute the hit.
		if pixel.Type == "google" && event.Metadata.GoogleClientID == "" {
			log.Printf("pixels: skipping google pixel %s, no googleClientId on the session", pixel.PixelID)
			continue
		}

		if err := sender.Send(ctx, event, pixel); err != nil {
			log.Printf("pixels: %s pixel %s failed for event %s: %v", pixel.Type, pixel.PixelID, event.Kind, err)
		}
	}
}

func (s *Service) senderFor(pixelType string) Sender {
	for _, sender := range s.senders {
		if sender.Supports(pixelType) {
			return sender
		}
	}
	return nil
}
