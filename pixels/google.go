package pixels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"multipay/models"
)

const googleAPI = "https://www.google-analytics.com/mp/collect"

// GoogleSender pushes events to the GA4 Measurement Protocol. It needs the
// browser's client id, which AcceptTracking collects.
type GoogleSender struct {
	http *http.Client
}

func NewGoogleSender(client *http.Client) *GoogleSender {
	return &GoogleSender{http: client}
}

func (s *GoogleSender) Supports(pixelType string) bool {
	return pixelType == "google"
}

func (s *GoogleSender) Send(ctx context.Context, event Event, pixel models.Pixel) error {
	payload := map[string]interface{}{
		"client_id": event.Metadata.GoogleClientID,
		"events": []map[string]interface{}{
			{
				"name": googleEventName(event.Kind),
				"params": map[string]interface{}{
					"currency": event.Checkout.Offer.Currency,
					"value":    event.Checkout.Offer.Value,
					"items": []map[string]string{
						{"item_id": event.Checkout.Product.ID, "item_name": event.Checkout.Product.Name},
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s", googleAPI, pixel.PixelID, pixel.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("measurement protocol answered %d", resp.StatusCode)
	}
	return nil
}

func googleEventName(kind string) string {
	switch kind {
	case EventInitiateCheckout:
		return "begin_checkout"
	case EventCouponAdd, EventOrderBumpAdd, EventIncreaseAmount:
		return "add_to_cart"
	case EventCouponRemove, EventOrderBumpRemove, EventDecreaseAmount:
		return "remove_from_cart"
	default:
		return kind
	}
}
