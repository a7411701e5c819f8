package payments

import (
	"context"
	"errors"
	"log"
	"time"

	"multipay/apperr"
	"multipay/models"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

// remap converts Stripe's missing-resource errors into the NotFound taxonomy
// kind and wraps everything else as a gateway failure.
func remap(err error, msg string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return apperr.NotFound(msg + ": not found")
	}
	log.Printf("StripeGateway: %s: %v", msg, err)
	return apperr.Gateway(msg)
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency, customerID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "paypal", "klarna"}),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, remap(err, "could not create the payment intent")
	}
	if pi.ClientSecret == "" {
		log.Printf("StripeGateway: payment intent %s came back without a client secret", pi.ID)
		return nil, apperr.Gateway("could not start the payment")
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) UpdateIntentAmount(ctx context.Context, intentID string, amount int64) (*Intent, error) {
	pi, err := g.api.PaymentIntents.Update(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
		Amount: stripe.Int64(amount),
	})
	if err != nil {
		return nil, remap(err, "could not update the payment intent")
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	_, err := g.api.PaymentIntents.Cancel(intentID, &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return remap(err, "could not cancel the payment intent")
	}
	return nil
}

func (g *StripeGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) error {
	_, err := g.api.PaymentIntents.Confirm(intentID, &stripe.PaymentIntentConfirmParams{
		Params:        stripe.Params{Context: ctx},
		PaymentMethod: stripe.String(paymentMethodID),
	})
	if err != nil {
		return remap(err, "could not confirm the payment intent")
	}
	return nil
}

func (g *StripeGateway) IntentStatus(ctx context.Context, intentID string) (string, error) {
	pi, err := g.api.PaymentIntents.Get(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return "", remap(err, "could not fetch the payment intent")
	}
	return string(pi.Status), nil
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, billing models.CustomerData) (*Customer, error) {
	cus, err := g.api.Customers.New(&stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(billing.Name),
		Email:  stripe.String(billing.Email),
		Phone:  stripe.String(billing.Phone),
		Address: &stripe.AddressParams{
			Line1:      stripe.String(billing.Address),
			City:       stripe.String(billing.City),
			State:      stripe.String(billing.State),
			Country:    stripe.String(billing.Country),
			PostalCode: stripe.String(billing.PostalCode),
		},
	})
	if err != nil {
		return nil, remap(err, "could not register the customer")
	}
	return &Customer{ID: cus.ID, Name: cus.Name, Email: cus.Email, Phone: cus.Phone}, nil
}

func (g *StripeGateway) CustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := g.api.Customers.List(params)
	for iter.Next() {
		cus := iter.Customer()
		return &Customer{ID: cus.ID, Name: cus.Name, Email: cus.Email, Phone: cus.Phone}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, remap(err, "could not search for the customer")
	}
	return nil, nil
}

func (g *StripeGateway) RetrieveCustomer(ctx context.Context, customerID string) (*Customer, error) {
	cus, err := g.api.Customers.Get(customerID, &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, remap(err, "could not fetch the customer")
	}
	return &Customer{ID: cus.ID, Name: cus.Name, Email: cus.Email, Phone: cus.Phone}, nil
}

func (g *StripeGateway) UpdateCustomer(ctx context.Context, customerID string, billing models.CustomerData) error {
	_, err := g.api.Customers.Update(customerID, &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(billing.Name),
		Email:  stripe.String(billing.Email),
		Phone:  stripe.String(billing.Phone),
		Address: &stripe.AddressParams{
			Line1:      stripe.String(billing.Address),
			City:       stripe.String(billing.City),
			State:      stripe.String(billing.State),
			Country:    stripe.String(billing.Country),
			PostalCode: stripe.String(billing.PostalCode),
		},
	})
	if err != nil {
		return remap(err, "could not update the customer billing data")
	}
	return nil
}

func (g *StripeGateway) CustomerPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	params := &stripe.PaymentMethodListParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	var methods []PaymentMethod
	iter := g.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		method := PaymentMethod{ID: pm.ID, Type: string(pm.Type)}
		if pm.Card != nil {
			method.Brand = string(pm.Card.Brand)
			method.Last4 = pm.Card.Last4
			method.ExpMonth = pm.Card.ExpMonth
			method.ExpYear = pm.Card.ExpYear
		}
		methods = append(methods, method)
	}
	if err := iter.Err(); err != nil {
		return nil, remap(err, "could not list the customer payment methods")
	}
	return methods, nil
}

func (g *StripeGateway) StartSubscription(ctx context.Context, customerID, priceID string) (*SubscriptionStart, error) {
	params := &stripe.SubscriptionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		CollectionMethod: stripe.String("charge_automatically"),
		PaymentBehavior:  stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := g.api.Subscriptions.New(params)
	if err != nil {
		return nil, remap(err, "could not create the subscription")
	}
	if sub.LatestInvoice == nil || sub.LatestInvoice.PaymentIntent == nil {
		log.Printf("StripeGateway: subscription %s has no expanded first invoice intent", sub.ID)
		return nil, apperr.Gateway("could not create the subscription")
	}

	return &SubscriptionStart{
		SubscriptionID: sub.ID,
		FirstIntentID:  sub.LatestInvoice.PaymentIntent.ID,
	}, nil
}

func (g *StripeGateway) SubscriptionByPrice(ctx context.Context, customerID, priceID string) (*Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Price:    stripe.String(priceID),
	}
	params.Context = ctx
	params.AddExpand("data.default_payment_method")

	iter := g.api.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		out := &Subscription{
			ID:                sub.ID,
			Status:            string(sub.Status),
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		}
		if pm := sub.DefaultPaymentMethod; pm != nil {
			method := PaymentMethod{ID: pm.ID, Type: string(pm.Type)}
			if pm.Card != nil {
				method.Brand = string(pm.Card.Brand)
				method.Last4 = pm.Card.Last4
				method.ExpMonth = pm.Card.ExpMonth
				method.ExpYear = pm.Card.ExpYear
			}
			out.PaymentMethod = &method
		}
		return out, nil
	}
	if err := iter.Err(); err != nil {
		return nil, remap(err, "could not search for the subscription")
	}
	return nil, nil
}

func (g *StripeGateway) UpdateSubscriptionPaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) error {
	_, err := g.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		Params:               stripe.Params{Context: ctx},
		DefaultPaymentMethod: stripe.String(paymentMethodID),
	})
	if err != nil {
		return remap(err, "could not update the subscription payment method")
	}
	return nil
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	_, err := g.api.Subscriptions.Cancel(subscriptionID, &stripe.SubscriptionCancelParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return remap(err, "could not cancel the subscription")
	}
	return nil
}

func (g *StripeGateway) PriceForProduct(ctx context.Context, productID string) (string, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := g.api.Prices.List(params)
	for iter.Next() {
		return iter.Price().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", remap(err, "could not fetch the product price")
	}
	return "", apperr.NotFound("no price registered for this product")
}

func (g *StripeGateway) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	si, err := g.api.SetupIntents.New(&stripe.SetupIntentParams{
		Params:             stripe.Params{Context: ctx},
		Customer:           stripe.String(customerID),
		Usage:              stripe.String("off_session"),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	})
	if err != nil {
		return "", remap(err, "could not create the setup intent")
	}
	if si.ClientSecret == "" {
		log.Printf("StripeGateway: setup intent %s came back without a client secret", si.ID)
		return "", apperr.Gateway("could not start the payment setup")
	}
	return si.ClientSecret, nil
}

func (g *StripeGateway) ListInvoices(ctx context.Context, subscriptionID string) ([]Invoice, error) {
	params := &stripe.InvoiceListParams{Subscription: stripe.String(subscriptionID)}
	params.Context = ctx
	params.AddExpand("data.payment_intent")

	var invoices []Invoice
	iter := g.api.Invoices.List(params)
	for iter.Next() {
		invoices = append(invoices, invoiceDTO(iter.Invoice()))
	}
	if err := iter.Err(); err != nil {
		return nil, remap(err, "could not list the subscription invoices")
	}
	return invoices, nil
}

func (g *StripeGateway) RetrieveInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	params := &stripe.InvoiceParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("payment_intent")

	inv, err := g.api.Invoices.Get(invoiceID, params)
	if err != nil {
		return nil, remap(err, "could not fetch the invoice")
	}
	dto := invoiceDTO(inv)
	return &dto, nil
}

func invoiceDTO(inv *stripe.Invoice) Invoice {
	dto := Invoice{
		ID:               inv.ID,
		Number:           inv.Number,
		Status:           string(inv.Status),
		Total:            float64(inv.Total) / 100,
		Currency:         string(inv.Currency),
		HostedInvoiceURL: inv.HostedInvoiceURL,
		Date:             time.Unix(inv.Created, 0),
	}
	if inv.DueDate > 0 {
		due := time.Unix(inv.DueDate, 0)
		dto.DueDate = &due
	}
	if inv.PaymentIntent != nil {
		dto.PaymentIntentID = inv.PaymentIntent.ID
	}
	return dto
}

// VerifyWebhook checks the event signature against the endpoint secret and
// reduces the event to the fields the core reacts to. Unverifiable payloads
// fail closed.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		log.Printf("StripeGateway: webhook signature rejected: %v", err)
		return nil, apperr.Unauthorized("invalid webhook signature")
	}

	out := &Event{Type: string(event.Type)}
	if id, ok := event.Data.Object["id"].(string); ok {
		out.ObjectID = id
	}
	if status, ok := event.Data.Object["status"].(string); ok {
		out.ObjectStatus = status
	}
	return out, nil
}
