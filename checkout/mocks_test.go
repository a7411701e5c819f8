package checkout

import (
	"context"
	"fmt"
	"testing"

	"multipay/catalog"
	"multipay/models"
	"multipay/payments"
	"multipay/pixels"
	"multipay/sessionstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// fakeGateway is a scriptable in-memory payment processor. Calls are
// recorded so tests can assert on the traffic the service generated.
type fakeGateway struct {
	intentSeq    int
	intentStatus string

	createdIntents   []payments.Intent
	updatedAmounts   []int64
	canceledIntents  []string
	confirmedIntents []string
	confirmErr       map[string]error

	customerByEmail *payments.Customer
	createdCustomer *payments.Customer
	updatedCustomer []string

	subscriptionStart *payments.SubscriptionStart
	setupSecret       string

	webhookEvent *payments.Event
	webhookErr   error
	invoice      *payments.Invoice
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency, customerID string) (*payments.Intent, error) {
	g.intentSeq++
	intent := payments.Intent{
		ID:           fmt.Sprintf("pi_%d", g.intentSeq),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.intentSeq),
		Amount:       amount,
		Currency:     currency,
	}
	g.createdIntents = append(g.createdIntents, intent)
	return &intent, nil
}

func (g *fakeGateway) UpdateIntentAmount(_ context.Context, intentID string, amount int64) (*payments.Intent, error) {
	g.updatedAmounts = append(g.updatedAmounts, amount)
	return &payments.Intent{ID: intentID, Amount: amount}, nil
}

func (g *fakeGateway) CancelIntent(_ context.Context, intentID string) error {
	g.canceledIntents = append(g.canceledIntents, intentID)
	return nil
}

func (g *fakeGateway) ConfirmIntent(_ context.Context, intentID, _ string) error {
	if err := g.confirmErr[intentID]; err != nil {
		return err
	}
	g.confirmedIntents = append(g.confirmedIntents, intentID)
	return nil
}

func (g *fakeGateway) IntentStatus(context.Context, string) (string, error) {
	return g.intentStatus, nil
}

func (g *fakeGateway) CreateCustomer(_ context.Context, billing models.CustomerData) (*payments.Customer, error) {
	if g.createdCustomer == nil {
		g.createdCustomer = &payments.Customer{ID: "cus_new", Name: billing.Name, Email: billing.Email}
	}
	return g.createdCustomer, nil
}

func (g *fakeGateway) CustomerByEmail(context.Context, string) (*payments.Customer, error) {
	return g.customerByEmail, nil
}

func (g *fakeGateway) RetrieveCustomer(_ context.Context, customerID string) (*payments.Customer, error) {
	return &payments.Customer{ID: customerID}, nil
}

func (g *fakeGateway) UpdateCustomer(_ context.Context, customerID string, _ models.CustomerData) error {
	g.updatedCustomer = append(g.updatedCustomer, customerID)
	return nil
}

func (g *fakeGateway) CustomerPaymentMethods(context.Context, string) ([]payments.PaymentMethod, error) {
	return nil, nil
}

func (g *fakeGateway) StartSubscription(context.Context, string, string) (*payments.SubscriptionStart, error) {
	return g.subscriptionStart, nil
}

func (g *fakeGateway) SubscriptionByPrice(context.Context, string, string) (*payments.Subscription, error) {
	return nil, nil
}

func (g *fakeGateway) UpdateSubscriptionPaymentMethod(context.Context, string, string) error {
	return nil
}

func (g *fakeGateway) CancelSubscription(context.Context, string) error { return nil }

func (g *fakeGateway) PriceForProduct(context.Context, string) (string, error) { return "", nil }

func (g *fakeGateway) CreateSetupIntent(context.Context, string) (string, error) {
	return g.setupSecret, nil
}

func (g *fakeGateway) ListInvoices(context.Context, string) ([]payments.Invoice, error) {
	return nil, nil
}

func (g *fakeGateway) RetrieveInvoice(context.Context, string) (*payments.Invoice, error) {
	return g.invoice, nil
}

func (g *fakeGateway) VerifyWebhook([]byte, string) (*payments.Event, error) {
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	return g.webhookEvent, nil
}

type saleStatusCall struct {
	PaymentIntentID string
	Status          string
}

// fakeCatalog is a scriptable ledger client.
type fakeCatalog struct {
	checkoutData *models.CheckoutData
	coupon       *models.Coupon

	registered          []*models.SaleRecord
	saleStatusCalls     []saleStatusCall
	subscriptionUpdates []saleStatusCall
}

func (c *fakeCatalog) FetchCheckoutData(context.Context, string, string) (*models.CheckoutData, error) {
	return c.checkoutData, nil
}

func (c *fakeCatalog) FetchDiscountCoupon(context.Context, string, string) (*models.Coupon, error) {
	return c.coupon, nil
}

func (c *fakeCatalog) RegisterSale(_ context.Context, sale *models.SaleRecord) error {
	c.registered = append(c.registered, sale)
	return nil
}

func (c *fakeCatalog) UpdateSaleStatus(_ context.Context, paymentIntentID, status string) error {
	c.saleStatusCalls = append(c.saleStatusCalls, saleStatusCall{paymentIntentID, status})
	return nil
}

func (c *fakeCatalog) UpdateSubscriptionStatus(_ context.Context, paymentIntentID, invoiceID string) error {
	c.subscriptionUpdates = append(c.subscriptionUpdates, saleStatusCall{paymentIntentID, invoiceID})
	return nil
}

func (c *fakeCatalog) FetchSubscriptionManagementSession(context.Context, string) (*catalog.ManagementSession, error) {
	return nil, nil
}

type fakePixels struct {
	events []pixels.Event
}

func (p *fakePixels) SendEvent(_ context.Context, event pixels.Event) {
	p.events = append(p.events, event)
}

type fixture struct {
	svc     *Service
	store   *sessionstore.Store
	gateway *fakeGateway
	catalog *fakeCatalog
	pixels  *fakePixels
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := sessionstore.New(rdb)
	gateway := &fakeGateway{}
	ledger := &fakeCatalog{}
	tracker := &fakePixels{}
	return &fixture{
		svc:     NewService(store, gateway, ledger, tracker),
		store:   store,
		gateway: gateway,
		catalog: ledger,
		pixels:  tracker,
	}
}

func uniqueCheckoutData() *models.CheckoutData {
	return &models.CheckoutData{
		OfferID:  "offer-1",
		SellerID: "seller-1",
		Offer: models.Offer{
			PaymentType: models.PaymentUnique,
			Name:        "Course",
			Value:       100,
			Currency:    "usd",
		},
		Product: models.Product{ID: "prod-1", PriceStripeID: "price_1"},
		Strategy: models.Strategy{
			OrderBump: []models.OrderBumpOption{
				{
					ID:      "bump-1",
					Offer:   models.Offer{PaymentType: models.PaymentUnique, Name: "Workbook", Value: 20, Currency: "usd"},
					Product: models.Product{ID: "prod-2"},
				},
			},
			Upsell: &models.UpsellOption{
				OrderBumpOption: models.OrderBumpOption{
					ID:      "upsell-1",
					Offer:   models.Offer{PaymentType: models.PaymentUnique, Name: "Mentoring", Value: 50, Currency: "usd"},
					Product: models.Product{ID: "prod-3"},
				},
			},
		},
	}
}

func recurrenceCheckoutData() *models.CheckoutData {
	data := uniqueCheckoutData()
	data.Offer.PaymentType = models.PaymentRecurrence
	return data
}

// seedSession stores a prepared session under a fixed token.
func seedSession(t *testing.T, f *fixture, session *models.CheckoutSession) string {
	t.Helper()
	const token = "tok-test"
	if err := f.store.Set(context.Background(), token, session); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	return token
}

func uniqueSession() *models.CheckoutSession {
	return &models.CheckoutSession{
		CheckoutData: *uniqueCheckoutData(),
		CheckoutStatus: models.CheckoutStatus{
			Status:         models.StatusInitial,
			Quantity:       1,
			OrderBumpItems: []models.OrderBumpItem{},
		},
		PaymentData: &models.PaymentData{
			ID:           "pi_main",
			ClientSecret: "pi_main_secret",
			PaymentType:  models.PaymentUnique,
			Amount:       10000,
		},
	}
}
