package models

// PaymentData references the external charge backing a session. Amount is
// tracked in minor currency units and mirrors what the processor will collect.
type PaymentData struct {
	ID           string      `json:"id"`
	ClientSecret string      `json:"client_secret"`
	PaymentType  PaymentType `json:"paymentType"`
	Amount       int64       `json:"amount"`
	// LastInvoice holds the first invoice's payment intent for recurring
	// sessions; it is the charge actually confirmed and polled.
	LastInvoice string `json:"lastInvoice,omitempty"`
}

// OrderBumpItem is an order bump added to the session. For recurring sessions
// the item carries its own independent charge.
type OrderBumpItem struct {
	ID          string       `json:"id"`
	PaymentData *PaymentData `json:"paymentData,omitempty"`
}

// AddonState is the sub-session for an upsell or downsell charge.
type AddonState struct {
	ID              string  `json:"id"`
	Value           float64 `json:"value"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Status          Status  `json:"status"`
}

// CheckoutStatus is the mutable cart and progress state of a session.
type CheckoutStatus struct {
	Status         Status          `json:"status"`
	Coupon         *Coupon         `json:"coupon,omitempty"`
	OrderBumpItems []OrderBumpItem `json:"orderBumpItens"`
	Quantity       int             `json:"amount"`
	Upsell         *AddonState     `json:"upsell,omitempty"`
	Downsell       *AddonState     `json:"downsell,omitempty"`
}

type CustomerMetadata struct {
	AcceptedCookies  bool   `json:"acceptedCookies"`
	UserIPAddress    string `json:"userIpAddress,omitempty"`
	UserBrowserAgent string `json:"userBrowserAgent,omitempty"`
	GoogleClientID   string `json:"googleClientId,omitempty"`
}

// CustomerData is the buyer's billing identity. ID is the payment processor's
// customer reference once one exists.
type CustomerData struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// CheckoutSession is the full state of one checkout attempt, persisted as a
// single record under an opaque token.
type CheckoutSession struct {
	CheckoutData     CheckoutData     `json:"checkoutData"`
	CheckoutStatus   CheckoutStatus   `json:"checkoutStatus"`
	PaymentData      *PaymentData     `json:"paymentData,omitempty"`
	CustomerMetadata CustomerMetadata `json:"customerMetadata"`
	CustomerData     *CustomerData    `json:"customerData,omitempty"`
}
