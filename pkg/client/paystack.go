package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PaystackClient verifies card payments against the Paystack
// transaction API before a booking or credit purchase is accepted.
type PaystackClient struct {
	httpClient *HttpClient
}

func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	return &PaystackClient{
		httpClient: NewHttpClient(baseURL).
			WithHeader("Authorization", "Bearer "+secretKey),
	}
}

// PaymentVerification is the subset of the Paystack verify response
// the booking flow cares about. Amount is converted from cents.
type PaymentVerification struct {
	Reference string
	Status    string
	Amount    float64
	Currency  string
	PaidAt    time.Time
}

// Verified reports whether the gateway settled the transaction.
func (v *PaymentVerification) Verified() bool {
	return v.Status == "success"
}

func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*PaymentVerification, error) {
	path := "/transaction/verify/" + url.PathEscape(reference)

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request failed: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &PaymentVerification{Reference: reference, Status: "not_found"}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify returned status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var payload struct {
		Status bool   `json:"status"`
		Msg    string `json:"message"`
		Data   struct {
			Status   string `json:"status"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			PaidAt   string `json:"paid_at"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("could not decode paystack verify response: %w", err)
	}
	if !payload.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", payload.Msg)
	}

	verification := &PaymentVerification{
		Reference: reference,
		Status:    payload.Data.Status,
		Amount:    float64(payload.Data.Amount) / 100,
		Currency:  payload.Data.Currency,
	}
	if payload.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, payload.Data.PaidAt); err == nil {
			verification.PaidAt = t
		}
	}

	return verification, nil
}
