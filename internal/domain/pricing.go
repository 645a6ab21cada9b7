package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	ServiceFeePercent = 10
	day               = 24 * time.Hour
)

type Quote struct {
	Nights             int   `json:"nights"`
	PricePerNightCents int64 `json:"price_per_night_cents"`
	SubtotalCents      int64 `json:"subtotal_cents"`
	ServiceFeeCents    int64 `json:"service_fee_cents"`
	TotalCents         int64 `json:"total_cents"`
}

// NewQuote prices a stay: nights x nightly price plus the service fee.
func NewQuote(pricePerNightCents int64, checkIn, checkOut time.Time) (Quote, error) {
	if pricePerNightCents <= 0 {
		return Quote{}, fmt.Errorf("%w: nightly price must be positive", ErrValidation)
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return Quote{}, fmt.Errorf("%w: check-in and check-out dates are required", ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return Quote{}, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}

	nights := Nights(checkIn, checkOut)
	subtotal := int64(nights) * pricePerNightCents
	fee := PercentOf(subtotal, ServiceFeePercent)

	return Quote{
		Nights:             nights,
		PricePerNightCents: pricePerNightCents,
		SubtotalCents:      subtotal,
		ServiceFeeCents:    fee,
		TotalCents:         subtotal + fee,
	}, nil
}

// Nights counts started 24h periods between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

// DaysUntil is the number of days to checkIn rounded up, negative once it has passed.
func DaysUntil(checkIn, now time.Time) int {
	return int(math.Ceil(checkIn.Sub(now).Hours() / 24))
}

// PercentOf returns pct percent of amount, rounded half-up to a whole cent.
func PercentOf(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
