package model

import "math"

// PriceBreakdown is the itemized result of pricing one booking. It is a
// value object; bookings persist its fields inline.
//
// Invariant: Total = Subtotal - FrequencyDiscount - DiscountCodeDiscount +
// ServiceFee + Tip, every term non-negative.
type PriceBreakdown struct {
	BasePrice            float64 `json:"base_price"`
	RoomPrice            float64 `json:"room_price"`
	ExtrasPrice          float64 `json:"extras_price"`
	Subtotal             float64 `json:"subtotal"`
	FrequencyDiscount    float64 `json:"frequency_discount"`
	DiscountCodeDiscount float64 `json:"discount_code_discount"`
	ServiceFee           float64 `json:"service_fee"`
	Tip                  float64 `json:"tip"`
	Total                float64 `json:"total"`
}

// RoomRates holds the per-room unit prices for one service type.
type RoomRates struct {
	Bedroom  float64 `json:"bedroom" bson:"bedroom"`
	Bathroom float64 `json:"bathroom" bson:"bathroom"`
}

// Tariff is the stored pricing configuration: base prices per service type,
// per-room unit prices, per-extra modifiers, per-frequency discount rates
// and a flat service fee.
type Tariff struct {
	BasePrices         map[string]float64   `json:"base_prices" bson:"base_prices"`
	RoomPricing        map[string]RoomRates `json:"room_pricing" bson:"room_pricing"`
	ExtrasPricing      map[string]float64   `json:"extras_pricing" bson:"extras_pricing"`
	FrequencyDiscounts map[string]float64   `json:"frequency_discounts" bson:"frequency_discounts"`
	ServiceFee         float64              `json:"service_fee" bson:"service_fee"`
}

// Round2 rounds a monetary amount to 2 decimals. Intermediate pricing terms
// stay unrounded; only final aggregates pass through here so rounding error
// never compounds.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
