package pricing

import (
	"testing"

	"bokclean/pkg/model"
)

func testTariff() *model.Tariff {
	return &model.Tariff{
		BasePrices: map[string]float64{
			model.ServiceStandard: 350,
		},
		RoomPricing: map[string]model.RoomRates{
			model.ServiceStandard: {Bedroom: 50, Bathroom: 40},
		},
		ExtrasPricing: map[string]float64{
			"ironing": 75,
		},
		FrequencyDiscounts: map[string]float64{
			model.FrequencyOneTime: 0,
			model.FrequencyWeekly:  0.10,
		},
		ServiceFee: 30,
	}
}

func TestQuoteWeeklyWithFixedDiscount(t *testing.T) {
	engine := NewEngine(testTariff())

	attrs := Attributes{
		Service:   model.ServiceStandard,
		Bedrooms:  2,
		Bathrooms: 1,
		Frequency: model.FrequencyWeekly,
	}

	quote := engine.Quote(attrs, 20)

	if quote.Subtotal != 490 {
		t.Errorf("expected subtotal 490, got %v", quote.Subtotal)
	}
	if quote.FrequencyDiscount != 49 {
		t.Errorf("expected frequency discount 49, got %v", quote.FrequencyDiscount)
	}
	if quote.DiscountCodeDiscount != 20 {
		t.Errorf("expected code discount 20, got %v", quote.DiscountCodeDiscount)
	}
	if quote.Total != 451 {
		t.Errorf("expected total 451, got %v", quote.Total)
	}
}

func TestQuoteClampsDiscountToDiscountedSubtotal(t *testing.T) {
	engine := NewEngine(testTariff())

	attrs := Attributes{
		Service:   model.ServiceStandard,
		Bathrooms: 1,
		Frequency: model.FrequencyOneTime,
	}

	// Subtotal is 390; a 1000 discount must clamp to 390.
	quote := engine.Quote(attrs, 1000)

	if quote.DiscountCodeDiscount != 390 {
		t.Errorf("expected discount clamped to 390, got %v", quote.DiscountCodeDiscount)
	}
	if quote.Total != quote.ServiceFee {
		t.Errorf("expected total to bottom out at the service fee %v, got %v", quote.ServiceFee, quote.Total)
	}
}

func TestQuoteNegativeDiscountIgnored(t *testing.T) {
	engine := NewEngine(testTariff())

	attrs := Attributes{
		Service:   model.ServiceStandard,
		Bathrooms: 1,
		Frequency: model.FrequencyOneTime,
	}

	quote := engine.Quote(attrs, -50)

	if quote.DiscountCodeDiscount != 0 {
		t.Errorf("expected negative discount ignored, got %v", quote.DiscountCodeDiscount)
	}
}

func TestQuoteIncludesExtrasAndTip(t *testing.T) {
	engine := NewEngine(testTariff())

	attrs := Attributes{
		Service:   model.ServiceStandard,
		Bedrooms:  1,
		Bathrooms: 1,
		Extras:    []string{"ironing", "unknown-extra"},
		Frequency: model.FrequencyOneTime,
		Tip:       25,
	}

	quote := engine.Quote(attrs, 0)

	// 350 + 50 + 40 + 75; unknown extras price at zero.
	if quote.Subtotal != 515 {
		t.Errorf("expected subtotal 515, got %v", quote.Subtotal)
	}
	if quote.Tip != 25 {
		t.Errorf("expected tip 25, got %v", quote.Tip)
	}
	if quote.Total != 570 {
		t.Errorf("expected total 570, got %v", quote.Total)
	}
}

func TestDiscountBase(t *testing.T) {
	engine := NewEngine(testTariff())

	attrs := Attributes{
		Service:   model.ServiceStandard,
		Bedrooms:  2,
		Bathrooms: 1,
		Frequency: model.FrequencyWeekly,
	}

	base := engine.DiscountBase(attrs)

	if base != 441 {
		t.Errorf("expected discount base 441, got %v", base)
	}
}

func TestCleanerEarnings(t *testing.T) {
	engine := NewEngine(testTariff())

	breakdown := model.PriceBreakdown{
		Subtotal:             490,
		FrequencyDiscount:    49,
		DiscountCodeDiscount: 20,
		ServiceFee:           30,
		Tip:                  50,
		Total:                501,
	}

	tests := []struct {
		name      string
		totalJobs int
		threshold int
		wantRate  float64
		want      float64
	}{
		{
			name:      "standard rate below threshold",
			totalJobs: 10,
			threshold: 50,
			wantRate:  0.60,
			want:      302.6, // 421*0.6 + 50
		},
		{
			name:      "veteran rate at threshold",
			totalJobs: 50,
			threshold: 50,
			wantRate:  0.70,
			want:      344.7, // 421*0.7 + 50
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earnings, rate := engine.CleanerEarnings(breakdown, tt.totalJobs, tt.threshold)
			if rate != tt.wantRate {
				t.Errorf("expected rate %v, got %v", tt.wantRate, rate)
			}
			if earnings != tt.want {
				t.Errorf("expected earnings %v, got %v", tt.want, earnings)
			}
		})
	}
}
