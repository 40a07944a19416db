package model

import (
	"time"
)

const (
	ServiceStandard       = "standard"
	ServiceDeep           = "deep"
	ServiceMoveInOut      = "move-in-out"
	ServiceAirbnb         = "airbnb"
	ServiceOffice         = "office"
	ServiceHoliday        = "holiday"
	ServiceCarpetCleaning = "carpet-cleaning"
)

const (
	FrequencyOneTime  = "one-time"
	FrequencyWeekly   = "weekly"
	FrequencyBiWeekly = "bi-weekly"
	FrequencyMonthly  = "monthly"
)

const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in-progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

const CleanerNoPreference = "no-preference"

// BookingForm is the customer-facing submission payload. Monetary fields are
// computed server-side and never accepted from the form.
type BookingForm struct {
	Service             string   `json:"service" validate:"required,oneof=standard deep move-in-out airbnb office holiday carpet-cleaning"`
	Bedrooms            int      `json:"bedrooms" validate:"min=0,max=20"`
	Bathrooms           int      `json:"bathrooms" validate:"min=1,max=20"`
	Extras              []string `json:"extras" validate:"omitempty,dive,min=2,max=50"`
	Frequency           string   `json:"frequency" validate:"required,oneof=one-time weekly bi-weekly monthly"`
	ScheduledDate       string   `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime       string   `json:"scheduled_time" validate:"required"`
	StreetAddress       string   `json:"street_address" validate:"required,min=2,max=200"`
	AptUnit             string   `json:"apt_unit" validate:"omitempty,max=50"`
	Suburb              string   `json:"suburb" validate:"required,min=2,max=100"`
	City                string   `json:"city" validate:"required,min=2,max=100"`
	CleanerPreference   string   `json:"cleaner_preference" validate:"omitempty,max=50"`
	SpecialInstructions string   `json:"special_instructions" validate:"omitempty,max=1000"`
	FirstName           string   `json:"first_name" validate:"required,min=1,max=100"`
	LastName            string   `json:"last_name" validate:"required,min=1,max=100"`
	Email               string   `json:"email" validate:"required,email"`
	Phone               string   `json:"phone" validate:"required"`
	DiscountCode        string   `json:"discount_code" validate:"omitempty,min=2,max=50"`
	Tip                 float64  `json:"tip" validate:"min=0"`
	PaymentMethod       string   `json:"payment_method" validate:"omitempty,oneof=card credits eft"`
	PaymentReference    string   `json:"payment_reference" validate:"omitempty,max=100"`
}

type Booking struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	Reference string `json:"booking_reference" bson:"booking_reference"`

	Service             string   `json:"service" bson:"service_type"`
	Frequency           string   `json:"frequency" bson:"frequency"`
	Bedrooms            int      `json:"bedrooms" bson:"bedrooms"`
	Bathrooms           int      `json:"bathrooms" bson:"bathrooms"`
	Extras              []string `json:"extras" bson:"extras"`
	ScheduledDate       string   `json:"scheduled_date" bson:"scheduled_date"`
	ScheduledTime       string   `json:"scheduled_time" bson:"scheduled_time"`
	StreetAddress       string   `json:"street_address" bson:"street_address"`
	AptUnit             string   `json:"apt_unit,omitempty" bson:"apt_unit,omitempty"`
	Suburb              string   `json:"suburb" bson:"suburb"`
	City                string   `json:"city" bson:"city"`
	CleanerPreference   string   `json:"cleaner_preference" bson:"cleaner_preference"`
	SpecialInstructions string   `json:"special_instructions,omitempty" bson:"special_instructions,omitempty"`

	FirstName string `json:"first_name" bson:"contact_first_name"`
	LastName  string `json:"last_name" bson:"contact_last_name"`
	Email     string `json:"email" bson:"contact_email"`
	Phone     string `json:"phone" bson:"contact_phone"`

	DiscountCode         string  `json:"discount_code,omitempty" bson:"discount_code,omitempty"`
	Subtotal             float64 `json:"subtotal" bson:"subtotal"`
	FrequencyDiscount    float64 `json:"frequency_discount" bson:"frequency_discount"`
	DiscountCodeDiscount float64 `json:"discount_code_discount" bson:"discount_code_discount"`
	ServiceFee           float64 `json:"service_fee" bson:"service_fee"`
	Tip                  float64 `json:"tip" bson:"tip"`
	TotalAmount          float64 `json:"total_amount" bson:"total_amount"`

	CleanerEarnings           *float64 `json:"cleaner_earnings,omitempty" bson:"cleaner_earnings,omitempty"`
	CleanerEarningsPercentage *float64 `json:"cleaner_earnings_percentage,omitempty" bson:"cleaner_earnings_percentage,omitempty"`

	Status           string `json:"status" bson:"status"`
	PaymentStatus    string `json:"payment_status" bson:"payment_status"`
	PaymentReference string `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`

	IsRecurring       bool   `json:"is_recurring" bson:"is_recurring"`
	RecurringGroupID  string `json:"recurring_group_id,omitempty" bson:"recurring_group_id,omitempty"`
	RecurringSequence int    `json:"recurring_sequence" bson:"recurring_sequence"`
	ParentBookingID   string `json:"parent_booking_id,omitempty" bson:"parent_booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewBookingFromForm builds a booking record from a validated form. Pricing,
// payment and recurrence fields are filled in by the submission pipeline.
func NewBookingFromForm(form *BookingForm) *Booking {
	extras := form.Extras
	if extras == nil {
		extras = []string{}
	}
	preference := form.CleanerPreference
	if preference == "" {
		preference = CleanerNoPreference
	}
	return &Booking{
		Service:             form.Service,
		Frequency:           form.Frequency,
		Bedrooms:            form.Bedrooms,
		Bathrooms:           form.Bathrooms,
		Extras:              extras,
		ScheduledDate:       form.ScheduledDate,
		ScheduledTime:       form.ScheduledTime,
		StreetAddress:       form.StreetAddress,
		AptUnit:             form.AptUnit,
		Suburb:              form.Suburb,
		City:                form.City,
		CleanerPreference:   preference,
		SpecialInstructions: form.SpecialInstructions,
		FirstName:           form.FirstName,
		LastName:            form.LastName,
		Email:               form.Email,
		Phone:               form.Phone,
		DiscountCode:        form.DiscountCode,
		Tip:                 form.Tip,
		Status:              BookingPending,
		PaymentStatus:       PaymentPending,
	}
}

// Confirmable reports whether the booking may transition to confirmed.
// A booking is only ever confirmed once its payment has completed.
func (b *Booking) Confirmable() bool {
	return b.PaymentStatus == PaymentCompleted
}
