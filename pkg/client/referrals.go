package client

import (
	"context"
	"fmt"
	"net/http"
)

// ReferralClient notifies the referral engine when a referred customer
// completes their first booking. The engine owns reward issuance.
type ReferralClient struct {
	httpClient *HttpClient
}

func NewReferralClient(baseURL string) *ReferralClient {
	return &ReferralClient{
		httpClient: NewHttpClient(baseURL),
	}
}

type ReferralRewardRequest struct {
	RefereeEmail     string  `json:"referee_email"`
	BookingReference string  `json:"booking_reference"`
	BookingTotal     float64 `json:"booking_total"`
}

func (c *ReferralClient) ProcessRewards(ctx context.Context, req ReferralRewardRequest) error {
	resp, err := c.httpClient.POST(ctx, "/api/v1/referrals/rewards", req)
	if err != nil {
		return fmt.Errorf("referral reward request failed: %w", err)
	}

	// 404 means the customer was never referred. Not an error.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("referral engine returned status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	return nil
}
