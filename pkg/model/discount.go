package model

import "time"

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// DiscountCode is an admin-issued pricing modifier. Validation against an
// order happens in the discounts service; this record only carries the
// stored configuration.
type DiscountCode struct {
	ID                 string     `json:"id,omitempty" bson:"_id,omitempty"`
	Code               string     `json:"code" bson:"code"`
	Type               string     `json:"discount_type" bson:"discount_type"`
	Value              float64    `json:"value" bson:"value"`
	MinimumOrderAmount float64    `json:"minimum_order_amount" bson:"minimum_order_amount"`
	MaximumDiscount    *float64   `json:"maximum_discount_amount,omitempty" bson:"maximum_discount_amount,omitempty"`
	ValidFrom          time.Time  `json:"valid_from" bson:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until,omitempty" bson:"valid_until,omitempty"`
	IsActive           bool       `json:"is_active" bson:"is_active"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
}

// Voucher is a user-assigned discount instrument. Unlike a plain discount
// code its redemption state is a one-way transition.
type Voucher struct {
	ID                 string     `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string     `json:"user_id" bson:"user_id"`
	Code               string     `json:"code" bson:"code"`
	Type               string     `json:"voucher_type" bson:"voucher_type"`
	Value              float64    `json:"value" bson:"value"`
	MinimumOrderAmount float64    `json:"minimum_order_amount" bson:"minimum_order_amount"`
	MaximumDiscount    *float64   `json:"maximum_discount_amount,omitempty" bson:"maximum_discount_amount,omitempty"`
	ValidFrom          time.Time  `json:"valid_from" bson:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until,omitempty" bson:"valid_until,omitempty"`
	IsActive           bool       `json:"is_active" bson:"is_active"`
	IsRedeemed         bool       `json:"is_redeemed" bson:"is_redeemed"`
	RedeemedAt         *time.Time `json:"redeemed_at,omitempty" bson:"redeemed_at,omitempty"`
	AssignedAt         time.Time  `json:"assigned_at" bson:"assigned_at"`
}

// DiscountUsage records one redemption, keyed by booking reference so a
// retried submission never double-counts the same code.
type DiscountUsage struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	Code             string    `json:"code" bson:"code"`
	BookingReference string    `json:"booking_reference" bson:"booking_reference"`
	UserEmail        string    `json:"user_email" bson:"user_email"`
	DiscountAmount   float64   `json:"discount_amount" bson:"discount_amount"`
	OrderTotal       float64   `json:"order_total" bson:"order_total"`
	RedeemedAt       time.Time `json:"redeemed_at" bson:"redeemed_at"`
}
