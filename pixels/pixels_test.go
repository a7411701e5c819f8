package pixels

import (
	"context"
	"errors"
	"testing"

	"multipay/models"

	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	provider string
	err      error
	sent     []models.Pixel
}

func (s *recordingSender) Supports(pixelType string) bool { return pixelType == s.provider }

func (s *recordingSender) Send(_ context.Context, _ Event, pixel models.Pixel) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, pixel)
	return nil
}

func TestSendEventDispatchesPerProvider(t *testing.T) {
	facebook := &recordingSender{provider: "facebook"}
	tiktok := &recordingSender{provider: "tiktok"}
	svc := NewService(facebook, tiktok)

	svc.SendEvent(context.Background(), Event{
		Kind: EventInitiateCheckout,
		Checkout: models.CheckoutData{
			Pixels: []models.Pixel{
				{Type: "facebook", PixelID: "fb-1"},
				{Type: "tiktok", PixelID: "tt-1"},
			},
		},
	})

	assert.Len(t, facebook.sent, 1)
	assert.Len(t, tiktok.sent, 1)
	assert.Equal(t, "fb-1", facebook.sent[0].PixelID)
}

func TestSendEventSkipsGoogleWithoutClientID(t *testing.T) {
	google := &recordingSender{provider: "google"}
	svc := NewService(google)

	svc.SendEvent(context.Background(), Event{
		Kind: EventCouponAdd,
		Checkout: models.CheckoutData{
			Pixels: []models.Pixel{{Type: "google", PixelID: "G-1"}},
		},
	})
	assert.Empty(t, google.sent)

	svc.SendEvent(context.Background(), Event{
		Kind:     EventCouponAdd,
		Metadata: models.CustomerMetadata{GoogleClientID: "GA1.1.1"},
		Checkout: models.CheckoutData{
			Pixels: []models.Pixel{{Type: "google", PixelID: "G-1"}},
		},
	})
	assert.Len(t, google.sent, 1)
}

func TestSendEventSwallowsProviderFailures(t *testing.T) {
	failing := &recordingSender{provider: "facebook", err: errors.New("api down")}
	tiktok := &recordingSender{provider: "tiktok"}
	svc := NewService(failing, tiktok)

	svc.SendEvent(context.Background(), Event{
		Kind: EventOrderBumpAdd,
		Checkout: models.CheckoutData{
			Pixels: []models.Pixel{
				{Type: "facebook", PixelID: "fb-1"},
				{Type: "tiktok", PixelID: "tt-1"},
			},
		},
	})

	// the failing provider does not stop the rest
	assert.Len(t, tiktok.sent, 1)
}

func TestSendEventWithoutPixels(t *testing.T) {
	sender := &recordingSender{provider: "facebook"}
	svc := NewService(sender)

	svc.SendEvent(context.Background(), Event{Kind: EventInitiateCheckout})
	assert.Empty(t, sender.sent)
}
