// Package catalog talks to the catalog/sales-ledger REST API: offer snapshots
// for new sessions, coupon lookups, and finalized-sale registration.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"multipay/apperr"
	"multipay/models"
)

// ManagementSession resolves a subscription-management token to the customer
// and product it belongs to.
type ManagementSession struct {
	CustomerID string         `json:"customerStripeId"`
	Product    models.Product `json:"product"`
}

// Client is the catalog/ledger capability the core consumes.
type Client interface {
	FetchCheckoutData(ctx context.Context, offerID, sellerID string) (*models.CheckoutData, error)
	FetchDiscountCoupon(ctx context.Context, offerID, code string) (*models.Coupon, error)
	RegisterSale(ctx context.Context, sale *models.SaleRecord) error
	UpdateSaleStatus(ctx context.Context, paymentIntentID, status string) error
	UpdateSubscriptionStatus(ctx context.Context, paymentIntentID, invoiceID string) error
	FetchSubscriptionManagementSession(ctx context.Context, token string) (*ManagementSession, error)
}

// RestClient implements Client over the ledger's HTTP API.
type RestClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewRestClient(baseURL, apiKey string) *RestClient {
	return &RestClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *RestClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("catalog request encode failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("catalog request build failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("resource not found at the catalog")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("catalog: %s %s answered %d: %s", method, path, resp.StatusCode, raw)
		return apperr.Gateway("the catalog service answered with an error")
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog response decode failed: %w", err)
	}
	return nil
}

func (c *RestClient) FetchCheckoutData(ctx context.Context, offerID, sellerID string) (*models.CheckoutData, error) {
	query := url.Values{"linkId": {offerID}, "profileCode": {sellerID}}

	var response struct {
		Data models.CheckoutData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/detail", query, nil, &response); err != nil {
		return nil, err
	}

	data := response.Data
	data.OfferID = offerID
	data.SellerID = sellerID
	return &data, nil
}

// FetchDiscountCoupon returns nil when the coupon does not exist for the
// offer; the caller decides whether that is a validation failure.
func (c *RestClient) FetchDiscountCoupon(ctx context.Context, offerID, code string) (*models.Coupon, error) {
	query := url.Values{"cupom": {code}, "linkId": {offerID}}

	var response struct {
		Data models.Coupon `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/cupom", query, nil, &response)
	if err != nil {
		if apperr.CodeOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &response.Data, nil
}

func (c *RestClient) RegisterSale(ctx context.Context, sale *models.SaleRecord) error {
	return c.do(ctx, http.MethodPost, "/purchase", nil, sale, nil)
}

func (c *RestClient) UpdateSaleStatus(ctx context.Context, paymentIntentID, status string) error {
	query := url.Values{"paymentIntentStripe": {paymentIntentID}, "statusStripe": {status}}
	return c.do(ctx, http.MethodPost, "/purchase/async", query, nil, nil)
}

func (c *RestClient) UpdateSubscriptionStatus(ctx context.Context, paymentIntentID, invoiceID string) error {
	query := url.Values{"paymentIntentStripe": {paymentIntentID}, "invoiceIdStripe": {invoiceID}}
	return c.do(ctx, http.MethodPost, "/purchase/recurrence/async", query, nil, nil)
}

func (c *RestClient) FetchSubscriptionManagementSession(ctx context.Context, token string) (*ManagementSession, error) {
	query := url.Values{"token": {token}}

	var response struct {
		Data ManagementSession `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/info/user/recurrence", query, nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}
