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

const facebookAPI = "https://graph.facebook.com/v18.0"

// FacebookSender pushes events to the Meta Conversions API.
type FacebookSender struct {
	http *http.Client
}

func NewFacebookSender(client *http.Client) *FacebookSender {
	return &FacebookSender{http: client}
}

func (s *FacebookSender) Supports(pixelType string) bool {
	return pixelType == "facebook"
}

func (s *FacebookSender) Send(ctx context.Context, event Event, pixel models.Pixel) error {
	name, description := facebookEventName(event.Kind)

	payload := map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"event_name":    name,
				"event_time":    time.Now().Unix(),
				"action_source": "website",
				"user_data": map[string]string{
					"client_ip_address": event.Metadata.UserIPAddress,
					"client_user_agent": event.Metadata.UserBrowserAgent,
				},
				"custom_data": map[string]string{
					"description": description,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/events?access_token=%s", facebookAPI, pixel.PixelID, pixel.AccessToken)
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
		return fmt.Errorf("conversions api answered %d", resp.StatusCode)
	}
	return nil
}

func facebookEventName(kind string) (string, string) {
	switch kind {
	case EventInitiateCheckout:
		return "InitiateCheckout", "checkout started"
	case EventCouponAdd:
		return "AddToCart", "discount coupon applied"
	case EventCouponRemove:
		return "RemoveFromCart", "discount coupon removed"
	case EventOrderBumpAdd:
		return "AddToCart", "order bump added"
	case EventOrderBumpRemove:
		return "RemoveFromCart", "order bump removed"
	case EventIncreaseAmount:
		return "AddToCart", "main product quantity increased"
	case EventDecreaseAmount:
		return "RemoveFromCart", "main product quantity decreased"
	default:
		return "InitiateCheckout", kind
	}
}
