package pixels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"multipay/models"
)

const tiktokAPI = "https://business-api.tiktok.com/open_api/v1.3/event/track/"

// TiktokSender pushes events to the TikTok Events API.
type TiktokSender struct {
	http *http.Client
}

func NewTiktokSender(client *http.Client) *TiktokSender {
	return &TiktokSender{http: client}
}

func (s *TiktokSender) Supports(pixelType string) bool {
	return pixelType == "tiktok"
}

func (s *TiktokSender) Send(ctx context.Context, event Event, pixel models.Pixel) error {
	payload := map[string]interface{}{
		"event_source":    "web",
		"event_source_id": pixel.PixelID,
		"data": []map[string]interface{}{
			{
				"event":      tiktokEventName(event.Kind),
				"event_time": time.Now().Unix(),
				"user": map[string]string{
					"ip":         event.Metadata.UserIPAddress,
					"user_agent": event.Metadata.UserBrowserAgent,
				},
				"properties": map[string]interface{}{
					"currency": event.Checkout.Offer.Currency,
					"value":    event.Checkout.Offer.Value,
					"contents": []map[string]string{
						{"content_id": event.Checkout.Product.ID, "content_name": event.Checkout.Product.Name},
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokAPI, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Access-Token", pixel.AccessToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("events api answered %d", resp.StatusCode)
	}
	return nil
}

func tiktokEventName(kind string) string {
	switch kind {
	case EventInitiateCheckout:
		return "InitiateCheckout"
	case EventCouponAdd, EventOrderBumpAdd, EventIncreaseAmount:
		return "AddToCart"
	case EventCouponRemove, EventOrderBumpRemove, EventDecreaseAmount:
		return "RemoveFromCart"
	default:
		return "ViewContent"
	}
}
