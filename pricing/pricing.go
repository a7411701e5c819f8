// Package pricing holds the monetary recalculation rules for checkout
// sessions. Everything works in minor currency units (cents) so the results
// can be pushed to the payment processor as-is.
package pricing

import (
	"math"

	"multipay/apperr"
)

// Cents converts a catalog value in major units to minor units.
func Cents(value float64) int64 {
	return int64(math.Round(value * 100))
}

func checked(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperr.Validation("the resulting charge amount must be positive")
	}
	return amount, nil
}

// InitialAmount is the charge for a fresh session: unit value times quantity.
func InitialAmount(unitValue float64, quantity int) (int64, error) {
	if quantity < 1 {
		return 0, apperr.Validation("quantity must be at least 1")
	}
	return checked(Cents(unitValue) * int64(quantity))
}

// ApplyCoupon subtracts a coupon discount from the tracked amount.
func ApplyCoupon(current int64, valueDiscount float64) (int64, error) {
	return checked(current - Cents(valueDiscount))
}

// RemoveCoupon credits a previously applied discount back.
func RemoveCoupon(current int64, valueDiscount float64) (int64, error) {
	return checked(current + Cents(valueDiscount))
}

// ApplyOrderBump adds an order bump's value to the tracked amount.
func ApplyOrderBump(current int64, bumpValue float64) (int64, error) {
	return checked(current + Cents(bumpValue))
}

// RemoveOrderBump takes an order bump's value back out.
func RemoveOrderBump(current int64, bumpValue float64) (int64, error) {
	return checked(current - Cents(bumpValue))
}

// QuantityChange recomputes the tracked amount for a new quantity. The order
// bump remainder is derived from the tracked amount rather than recomputed
// from the bump list: the tracked amount is the source of truth for what the
// processor will charge, and bump charges added out of band must survive the
// change exactly.
func QuantityChange(current int64, previousQuantity, newQuantity int, unitValue, couponDiscount float64) (int64, error) {
	if newQuantity < 1 {
		return 0, apperr.Validation("quantity must be at least 1")
	}

	couponCents := Cents(couponDiscount)
	previousBase := Cents(unitValue) * int64(previousQuantity)
	remainder := current - previousBase - couponCents

	newBase := Cents(unitValue) * int64(newQuantity)
	return checked(couponCents + newBase + remainder)
}
