package pricing

import "bokclean/pkg/model"

// DefaultTariff is the fallback pricing configuration used when no
// tariff document exists in the store. Amounts are in rands.
func DefaultTariff() *model.Tariff {
	return &model.Tariff{
		BasePrices: map[string]float64{
			model.ServiceStandard:       250,
			model.ServiceDeep:           400,
			model.ServiceMoveInOut:      500,
			model.ServiceAirbnb:         350,
			model.ServiceOffice:         300,
			model.ServiceHoliday:        450,
			model.ServiceCarpetCleaning: 350,
		},
		RoomPricing: map[string]model.RoomRates{
			model.ServiceStandard:       {Bedroom: 20, Bathroom: 30},
			model.ServiceDeep:           {Bedroom: 180, Bathroom: 250},
			model.ServiceMoveInOut:      {Bedroom: 160, Bathroom: 220},
			model.ServiceAirbnb:         {Bedroom: 18, Bathroom: 26},
			model.ServiceOffice:         {Bedroom: 30, Bathroom: 40},
			model.ServiceHoliday:        {Bedroom: 30, Bathroom: 40},
			model.ServiceCarpetCleaning: {Bedroom: 0, Bathroom: 0},
		},
		ExtrasPricing: map[string]float64{
			"inside-fridge":    50,
			"inside-oven":      50,
			"inside-cabinets":  75,
			"interior-windows": 100,
			"interior-walls":   100,
			"ironing":          75,
			"laundry":          150,
		},
		FrequencyDiscounts: map[string]float64{
			model.FrequencyOneTime:  0,
			model.FrequencyWeekly:   0.15,
			model.FrequencyBiWeekly: 0.10,
			model.FrequencyMonthly:  0.05,
		},
		ServiceFee: 30,
	}
}
