// Package payments defines the payment-processor capability the checkout
// core consumes, plus the Stripe-backed implementation used in production.
package payments

import (
	"context"
	"time"

	"multipay/models"
)

// Intent is this backend's view of a payment intent. The JSON shape matches
// the session payload: clients read the secret from "client_secret".
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status,omitempty"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Invoice struct {
	ID               string     `json:"id"`
	PaymentIntentID  string     `json:"paymentIntentId,omitempty"`
	Number           string     `json:"number,omitempty"`
	Status           string     `json:"status"`
	Total            float64    `json:"total"`
	Currency         string     `json:"currency"`
	HostedInvoiceURL string     `json:"hostedInvoiceUrl,omitempty"`
	Date             time.Time  `json:"date"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
}

// SubscriptionStart is the result of creating a subscription: the
// subscription itself plus the payment intent of its first invoice, which is
// the charge the client actually confirms.
type SubscriptionStart struct {
	SubscriptionID string
	FirstIntentID  string
}

type PaymentMethod struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Brand    string `json:"brand,omitempty"`
	Last4    string `json:"last4,omitempty"`
	ExpMonth int64  `json:"expMonth,omitempty"`
	ExpYear  int64  `json:"expYear,omitempty"`
}

type Subscription struct {
	ID                string         `json:"id"`
	Status            string         `json:"status"`
	CancelAtPeriodEnd bool           `json:"cancelAtPeriodEnd"`
	PaymentMethod     *PaymentMethod `json:"paymentMethod,omitempty"`
}

// Event is a verified webhook event reduced to what the core reacts to.
type Event struct {
	Type         string
	ObjectID     string
	ObjectStatus string
}

// Gateway is the capability contract for the payment processor. The checkout
// core and subscription module depend on this interface only; main.go injects
// the Stripe implementation.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, customerID string) (*Intent, error)
	UpdateIntentAmount(ctx context.Context, intentID string, amount int64) (*Intent, error)
	CancelIntent(ctx context.Context, intentID string) error
	ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) error
	IntentStatus(ctx context.Context, intentID string) (string, error)

	CreateCustomer(ctx context.Context, billing models.CustomerData) (*Customer, error)
	CustomerByEmail(ctx context.Context, email string) (*Customer, error)
	RetrieveCustomer(ctx context.Context, customerID string) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, billing models.CustomerData) error
	CustomerPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)

	StartSubscription(ctx context.Context, customerID, priceID string) (*SubscriptionStart, error)
	SubscriptionByPrice(ctx context.Context, customerID, priceID string) (*Subscription, error)
	UpdateSubscriptionPaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) error
	CancelSubscription(ctx context.Context, subscriptionID string) error
	PriceForProduct(ctx context.Context, productID string) (string, error)

	CreateSetupIntent(ctx context.Context, customerID string) (clientSecret string, err error)
	ListInvoices(ctx context.Context, subscriptionID string) ([]Invoice, error)
	RetrieveInvoice(ctx context.Context, invoiceID string) (*Invoice, error)

	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
