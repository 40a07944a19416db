package testutil

import (
	"time"

	"bokclean/pkg/model"
)

type BookingFormBuilder struct {
	form model.BookingForm
}

func NewBookingFormBuilder() *BookingFormBuilder {
	return &BookingFormBuilder{
		form: model.BookingForm{
			Service:       model.ServiceStandard,
			Bedrooms:      2,
			Bathrooms:     1,
			Frequency:     model.FrequencyOneTime,
			ScheduledDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
			ScheduledTime: "09:00",
			StreetAddress: "12 Long Street",
			Suburb:        "Gardens",
			City:          "Cape Town",
			FirstName:     "Thandi",
			LastName:      "Nkosi",
			Email:         "thandi@example.com",
			Phone:         "+27821234567",
		},
	}
}

func (b *BookingFormBuilder) WithService(service string) *BookingFormBuilder {
	b.form.Service = service
	return b
}

func (b *BookingFormBuilder) WithFrequency(frequency string) *BookingFormBuilder {
	b.form.Frequency = frequency
	return b
}

func (b *BookingFormBuilder) WithRooms(bedrooms, bathrooms int) *BookingFormBuilder {
	b.form.Bedrooms = bedrooms
	b.form.Bathrooms = bathrooms
	return b
}

func (b *BookingFormBuilder) WithExtras(extras ...string) *BookingFormBuilder {
	b.form.Extras = extras
	return b
}

func (b *BookingFormBuilder) WithEmail(email string) *BookingFormBuilder {
	b.form.Email = email
	return b
}

func (b *BookingFormBuilder) WithDiscountCode(code string) *BookingFormBuilder {
	b.form.DiscountCode = code
	return b
}

func (b *BookingFormBuilder) WithPayment(method, reference string) *BookingFormBuilder {
	b.form.PaymentMethod = method
	b.form.PaymentReference = reference
	return b
}

func (b *BookingFormBuilder) WithTip(tip float64) *BookingFormBuilder {
	b.form.Tip = tip
	return b
}

func (b *BookingFormBuilder) Build() model.BookingForm {
	return b.form
}

// DiscountCodeFixture returns an active fixed-amount code for seeding.
func DiscountCodeFixture(code string, value float64) model.DiscountCode {
	return model.DiscountCode{
		Code:      code,
		Type:      model.DiscountFixed,
		Value:     value,
		ValidFrom: time.Now().Add(-24 * time.Hour),
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}
