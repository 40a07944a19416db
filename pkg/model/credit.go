package model

import "time"

const (
	CreditPurchase = "purchase"
	CreditUsage    = "usage"
)

const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
)

const (
	PayMethodCard = "card"
	PayMethodEFT  = "eft"
)

// AmountTolerance is the rounding slack allowed when comparing monetary
// amounts stored as floating point (2-decimal currency).
const AmountTolerance = 0.01

// CreditTransaction is one append-only ledger entry against a user's
// BokCred balance. For a completed entry balance_after = balance_before +
// amount (amount is negative for usage). A pending entry carries
// balance_after = balance_before; the balance only moves at completion.
type CreditTransaction struct {
	ID               string         `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           string         `json:"user_id" bson:"user_id"`
	Type             string         `json:"transaction_type" bson:"transaction_type"`
	Amount           float64        `json:"amount" bson:"amount"`
	BalanceBefore    float64        `json:"balance_before" bson:"balance_before"`
	BalanceAfter     float64        `json:"balance_after" bson:"balance_after"`
	PaymentMethod    string         `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	PaymentReference string         `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	Status           string         `json:"status" bson:"status"`
	Metadata         map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}

// Balanced reports whether the entry satisfies the ledger invariant.
func (t *CreditTransaction) Balanced() bool {
	expected := t.BalanceBefore
	if t.Status == TransactionCompleted {
		expected += t.Amount
	}
	diff := t.BalanceAfter - expected
	if diff < 0 {
		diff = -diff
	}
	return diff <= AmountTolerance
}
