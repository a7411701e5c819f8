package models

// PaymentType distinguishes one-time charges from subscriptions.
type PaymentType string

const (
	PaymentUnique     PaymentType = "unique"
	PaymentRecurrence PaymentType = "recurrence"
)

// Offer is the sellable unit as the catalog describes it.
type Offer struct {
	PaymentType PaymentType `json:"paymentType"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Value       float64     `json:"value"` // major currency units
	Currency    string      `json:"currency"`
}

type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Category      string `json:"category,omitempty"`
	PriceStripeID string `json:"priceStripeID"`
}

// Pixel is one tracking-pixel configuration attached to an offer.
type Pixel struct {
	Type        string `json:"typePixel"` // google | facebook | tiktok
	Name        string `json:"name"`
	PixelID     string `json:"pixelId"`
	PixelLabel  string `json:"pixelLabel,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// OrderBumpOption is an add-on the buyer may attach to the main purchase.
type OrderBumpOption struct {
	ID      string  `json:"id"`
	Offer   Offer   `json:"offer"`
	Product Product `json:"product"`
}

// UpsellOption is a secondary offer shown after the main purchase concludes.
type UpsellOption struct {
	OrderBumpOption
	CallbackPage string `json:"producerCheckoutCallbackPage,omitempty"`
	RedirectURL  string `json:"urlRedirectUpsell,omitempty"`
	Text         string `json:"textUpsell,omitempty"`
}

// Strategy groups the optional add-on offers the seller configured.
type Strategy struct {
	OrderBump []OrderBumpOption `json:"orderBump,omitempty"`
	Upsell    *UpsellOption     `json:"upsell,omitempty"`
	Downsell  *UpsellOption     `json:"downsell,omitempty"`
}

// Coupon is a discount fetched from the catalog for a specific offer.
type Coupon struct {
	Code               string  `json:"coupon"`
	PercentageDiscount float64 `json:"percentageDiscount,omitempty"`
	ValueDiscount      float64 `json:"valueDiscount"` // major currency units
}

// CheckoutData is the immutable offer snapshot taken at session creation.
type CheckoutData struct {
	OfferID  string   `json:"offerId"`
	SellerID string   `json:"sellerId"`
	Offer    Offer    `json:"offer"`
	Product  Product  `json:"product"`
	Strategy Strategy `json:"strategy"`
	Pixels   []Pixel  `json:"pixels,omitempty"`
}
