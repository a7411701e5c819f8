package models

// SaleAddress is the address shape the ledger expects.
type SaleAddress struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// SaleBasicInfo identifies the purchase for the ledger.
type SaleBasicInfo struct {
	Coupon         string      `json:"cupom,omitempty"`
	Discount       float64     `json:"discount,omitempty"`
	LinkID         string      `json:"linkId"`
	PaymentIntent  string      `json:"paymentIntentStripe"`
	SubscriptionID string      `json:"subscriptionIdStripe,omitempty"`
	PaymentType    PaymentType `json:"paymentType"`
	ProductID      string      `json:"productId"`
	ProfileCode    string      `json:"profileCode"`
	Status         string      `json:"statusStripe"`
	TotalPrice     float64     `json:"totalPrice"`
}

type SaleOrderBump struct {
	ProductID string  `json:"productId"`
	Value     float64 `json:"value"`
}

type SalePersonalInfo struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	PersonalAddress SaleAddress `json:"personalAddress"`
	ShippingAddress SaleAddress `json:"shippingAddress"`
}

// SaleRecord is the finalized-sale payload pushed to the ledger.
type SaleRecord struct {
	BasicPaymentInfo    SaleBasicInfo    `json:"basicPaymentInfo"`
	OrderBump           []SaleOrderBump  `json:"orderBump"`
	PersonalPaymentInfo SalePersonalInfo `json:"personalPaymentInfo"`
}
