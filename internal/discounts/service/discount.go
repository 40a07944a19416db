package service

import (
	"context"
	"errors"
	"time"

	discounterrors "bokclean/internal/discounts/errors"
	"bokclean/internal/discounts/repository"
	"bokclean/pkg/config"
	"bokclean/pkg/model"
	"bokclean/pkg/sanitizer"
)

// Resolution is the typed outcome of validating one code against one
// order. A rejected resolution is not an error: the store worked, the
// code just does not apply.
type Resolution struct {
	Accepted bool    `json:"accepted"`
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason,omitempty"`
	Code     string  `json:"code"`

	voucherID string
}

type DiscountService interface {
	Resolve(ctx context.Context, code string, orderTotal float64) (*Resolution, error)
	RecordUsage(ctx context.Context, resolution *Resolution, bookingReference, userEmail string, orderTotal float64) error
}

type discountService struct {
	repo repository.DiscountRepository
	cfg  *config.Config
}

func NewDiscountService(repo repository.DiscountRepository, cfg *config.Config) DiscountService {
	return &discountService{
		repo: repo,
		cfg:  cfg,
	}
}

// Resolve validates a code or voucher against the order total. It never
// consumes the instrument; RecordUsage does that, after payment.
func (s *discountService) Resolve(ctx context.Context, code string, orderTotal float64) (*Resolution, error) {
	normalized := sanitizer.NormalizeDiscountCode(code)
	if normalized == "" {
		return rejected(normalized, discounterrors.ReasonNotFound), nil
	}

	now := time.Now().UTC()

	discountCode, err := s.repo.FindCodeByCode(ctx, normalized)
	if err == nil {
		return s.resolveCode(discountCode, orderTotal, now), nil
	}
	if !errors.Is(err, discounterrors.ErrNotFound) {
		return nil, err
	}

	voucher, err := s.repo.FindVoucherByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, discounterrors.ErrNotFound) {
			return rejected(normalized, discounterrors.ReasonNotFound), nil
		}
		return nil, err
	}

	return s.resolveVoucher(voucher, orderTotal, now), nil
}

func (s *discountService) resolveCode(code *model.DiscountCode, orderTotal float64, now time.Time) *Resolution {
	if !code.IsActive {
		return rejected(code.Code, discounterrors.ReasonInactive)
	}
	if reason := checkWindow(code.ValidFrom, code.ValidUntil, now); reason != "" {
		return rejected(code.Code, reason)
	}
	if orderTotal < code.MinimumOrderAmount {
		return rejected(code.Code, discounterrors.ReasonBelowMinimum)
	}

	amount := discountAmount(code.Type, code.Value, code.MaximumDiscount, orderTotal)
	return &Resolution{
		Accepted: true,
		Amount:   model.Round2(amount),
		Code:     code.Code,
	}
}

func (s *discountService) resolveVoucher(voucher *model.Voucher, orderTotal float64, now time.Time) *Resolution {
	if voucher.IsRedeemed {
		return rejected(voucher.Code, discounterrors.ReasonAlreadyRedeemed)
	}
	if !voucher.IsActive {
		return rejected(voucher.Code, discounterrors.ReasonInactive)
	}
	if reason := checkWindow(voucher.ValidFrom, voucher.ValidUntil, now); reason != "" {
		return rejected(voucher.Code, reason)
	}
	if orderTotal < voucher.MinimumOrderAmount {
		return rejected(voucher.Code, discounterrors.ReasonBelowMinimum)
	}

	amount := discountAmount(voucher.Type, voucher.Value, voucher.MaximumDiscount, orderTotal)
	return &Resolution{
		Accepted:  true,
		Amount:    model.Round2(amount),
		Code:      voucher.Code,
		voucherID: voucher.ID,
	}
}

// RecordUsage consumes the instrument after the owning booking's
// payment completed. Keyed by booking reference so a retried
// submission never double-counts.
func (s *discountService) RecordUsage(ctx context.Context, resolution *Resolution, bookingReference, userEmail string, orderTotal float64) error {
	if resolution == nil || !resolution.Accepted {
		return nil
	}

	// Cheap pre-check; the unique index on booking_reference still
	// backstops the race.
	if _, err := s.repo.FindUsageByBookingReference(ctx, bookingReference); err == nil {
		return nil
	} else if !errors.Is(err, discounterrors.ErrNotFound) {
		return err
	}

	err := s.repo.InsertUsage(ctx, &model.DiscountUsage{
		Code:             resolution.Code,
		BookingReference: bookingReference,
		UserEmail:        userEmail,
		DiscountAmount:   resolution.Amount,
		OrderTotal:       orderTotal,
	})
	if err != nil {
		if errors.Is(err, discounterrors.ErrUsageExists) {
			// Retried submission; the first write already counted.
			return nil
		}
		return err
	}

	if resolution.voucherID != "" {
		if err := s.repo.MarkVoucherRedeemed(ctx, resolution.voucherID); err != nil {
			return err
		}
	}

	return nil
}

func rejected(code, reason string) *Resolution {
	return &Resolution{Accepted: false, Reason: reason, Code: code}
}

func checkWindow(validFrom time.Time, validUntil *time.Time, now time.Time) string {
	if now.Before(validFrom) {
		return discounterrors.ReasonExpired
	}
	if validUntil != nil && now.After(*validUntil) {
		return discounterrors.ReasonExpired
	}
	return ""
}

func discountAmount(discountType string, value float64, maximum *float64, orderTotal float64) float64 {
	switch discountType {
	case model.DiscountPercentage:
		amount := orderTotal * value / 100
		if maximum != nil && amount > *maximum {
			amount = *maximum
		}
		return amount
	case model.DiscountFixed:
		if value > orderTotal {
			return orderTotal
		}
		return value
	default:
		return 0
	}
}
