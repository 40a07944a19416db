package pricing

import (
	"bokclean/pkg/model"
)

// Attributes are the pricing-relevant slice of a booking submission.
type Attributes struct {
	Service   string
	Bedrooms  int
	Bathrooms int
	Extras    []string
	Frequency string
	Tip       float64
}

// Engine prices bookings against a tariff. It is a pure calculator:
// no store access, no side effects, safe to call repeatedly.
type Engine struct {
	tariff *model.Tariff
}

func NewEngine(tariff *model.Tariff) *Engine {
	if tariff == nil {
		tariff = DefaultTariff()
	}
	return &Engine{tariff: tariff}
}

// Quote computes the itemized breakdown for a booking. discountCodeAmount
// is the already-resolved discount value; it is clamped so it can never
// exceed the frequency-discounted subtotal. Intermediate terms stay
// unrounded; only the final aggregates are rounded to cents.
func (e *Engine) Quote(attrs Attributes, discountCodeAmount float64) model.PriceBreakdown {
	basePrice := e.tariff.BasePrices[attrs.Service]

	rates := e.tariff.RoomPricing[attrs.Service]
	roomPrice := float64(attrs.Bedrooms)*rates.Bedroom + float64(attrs.Bathrooms)*rates.Bathroom

	var extrasPrice float64
	for _, extra := range attrs.Extras {
		extrasPrice += e.tariff.ExtrasPricing[extra]
	}

	subtotal := basePrice + roomPrice + extrasPrice

	frequencyDiscount := subtotal * e.tariff.FrequencyDiscounts[attrs.Frequency]

	codeDiscount := discountCodeAmount
	if codeDiscount < 0 {
		codeDiscount = 0
	}
	if max := subtotal - frequencyDiscount; codeDiscount > max {
		codeDiscount = max
	}

	tip := attrs.Tip
	if tip < 0 {
		tip = 0
	}

	total := subtotal - frequencyDiscount - codeDiscount + e.tariff.ServiceFee + tip

	return model.PriceBreakdown{
		BasePrice:            basePrice,
		RoomPrice:            roomPrice,
		ExtrasPrice:          extrasPrice,
		Subtotal:             model.Round2(subtotal),
		FrequencyDiscount:    model.Round2(frequencyDiscount),
		DiscountCodeDiscount: model.Round2(codeDiscount),
		ServiceFee:           e.tariff.ServiceFee,
		Tip:                  model.Round2(tip),
		Total:                model.Round2(total),
	}
}

// DiscountBase returns the amount a discount code is validated against:
// the subtotal net of the frequency discount, before fee and tip.
func (e *Engine) DiscountBase(attrs Attributes) float64 {
	quote := e.Quote(attrs, 0)
	return model.Round2(quote.Subtotal - quote.FrequencyDiscount)
}

// Earnings split paid to the assigned cleaner. Veterans earn a higher
// percentage of the discounted service amount; tips pass through whole.
const (
	StandardEarningsRate = 0.60
	VeteranEarningsRate  = 0.70
)

// CleanerEarnings computes the cleaner's cut for a priced booking.
// The earnings base excludes the platform's service fee; the tip is
// added at 100%.
func (e *Engine) CleanerEarnings(breakdown model.PriceBreakdown, totalJobs, veteranThreshold int) (earnings, rate float64) {
	rate = StandardEarningsRate
	if totalJobs >= veteranThreshold {
		rate = VeteranEarningsRate
	}

	base := breakdown.Subtotal - breakdown.FrequencyDiscount - breakdown.DiscountCodeDiscount
	if base < 0 {
		base = 0
	}

	return model.Round2(base*rate + breakdown.Tip), rate
}
