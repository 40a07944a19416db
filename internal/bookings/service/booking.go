package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingerrors "bokclean/internal/bookings/errors"
	"bokclean/internal/bookings/repository"
	"bokclean/internal/bookings/validator"
	creditsvc "bokclean/internal/credits/service"
	discountsvc "bokclean/internal/discounts/service"
	"bokclean/internal/pricing"
	"bokclean/internal/recurring"
	"bokclean/pkg/client"
	"bokclean/pkg/config"
	apperrors "bokclean/pkg/errors"
	"bokclean/pkg/model"

	"github.com/google/uuid"
)

// EventPublisher emits booking lifecycle events. Publishing is a side
// effect: failures are logged, never surfaced to the customer.
type EventPublisher interface {
	BookingReceived(ctx context.Context, booking *model.Booking) error
	BookingConfirmed(ctx context.Context, booking *model.Booking) error
}

// ReferralNotifier triggers referral rewards on a customer's first paid
// booking. *client.ReferralClient satisfies it.
type ReferralNotifier interface {
	ProcessRewards(ctx context.Context, req client.ReferralRewardRequest) error
}

// SubmissionResult is the handler-facing outcome of one submission.
type SubmissionResult struct {
	Booking     *model.Booking          `json:"booking"`
	Occurrences []*model.Booking        `json:"occurrences,omitempty"`
	Discount    *discountsvc.Resolution `json:"discount,omitempty"`
	Duplicate   bool                    `json:"duplicate,omitempty"`
}

type BookingService interface {
	Submit(ctx context.Context, userID string, form *model.BookingForm) (*SubmissionResult, error)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	GetSeries(ctx context.Context, groupID string) ([]*model.Booking, error)
	ValidateDiscount(ctx context.Context, code string, form *model.BookingForm) (*discountsvc.Resolution, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	cleaners  repository.CleanerRepository
	validator *validator.BookingFormValidator
	engine    *pricing.Engine
	discounts discountsvc.DiscountService
	credits   creditsvc.CreditService
	gateway   creditsvc.PaymentVerifier
	referrals ReferralNotifier
	events    EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	cleaners repository.CleanerRepository,
	formValidator *validator.BookingFormValidator,
	engine *pricing.Engine,
	discounts discountsvc.DiscountService,
	credits creditsvc.CreditService,
	gateway creditsvc.PaymentVerifier,
	referrals ReferralNotifier,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		cleaners:  cleaners,
		validator: formValidator,
		engine:    engine,
		discounts: discounts,
		credits:   credits,
		gateway:   gateway,
		referrals: referrals,
		events:    events,
		cfg:       cfg,
	}
}

// NewReference mints a booking reference. Generated before any payment
// call so external systems can correlate on it.
func NewReference() string {
	return "BK-" + strings.ToUpper(uuid.New().String()[:8])
}

// Submit runs the full submission pipeline: sanitize, validate, price,
// resolve discount, settle payment, persist, fan out recurrences, then
// fire the non-fatal side effects.
func (s *bookingService) Submit(ctx context.Context, userID string, form *model.BookingForm) (*SubmissionResult, error) {
	s.validator.Sanitize(form)
	if err := s.validator.Validate(form); err != nil {
		return nil, validationError(err)
	}

	attrs := pricing.Attributes{
		Service:   form.Service,
		Bedrooms:  form.Bedrooms,
		Bathrooms: form.Bathrooms,
		Extras:    form.Extras,
		Frequency: form.Frequency,
		Tip:       form.Tip,
	}

	var resolution *discountsvc.Resolution
	var discountAmount float64
	if form.DiscountCode != "" {
		var err error
		resolution, err = s.discounts.Resolve(ctx, form.DiscountCode, s.engine.DiscountBase(attrs))
		if err != nil {
			return nil, err
		}
		if !resolution.Accepted {
			return nil, apperrors.DiscountRejected(resolution.Reason,
				fmt.Sprintf("Discount code %s was rejected: %s", resolution.Code, resolution.Reason))
		}
		discountAmount = resolution.Amount
	}

	breakdown := s.engine.Quote(attrs, discountAmount)

	booking := model.NewBookingFromForm(form)
	booking.Reference = NewReference()
	applyBreakdown(booking, breakdown)

	// A recurring anchor carries its series linkage from the moment it
	// is persisted; the fan-out occurrences inherit it.
	if booking.Frequency != model.FrequencyOneTime {
		booking.IsRecurring = true
		booking.RecurringGroupID = recurring.NewGroupID()
	}

	// Idempotency guard: a retried submission with the same payment
	// reference resolves to the original booking.
	if form.PaymentReference != "" {
		existing, err := s.repo.FindByPaymentReference(ctx, form.PaymentReference)
		if err == nil {
			return &SubmissionResult{Booking: existing, Duplicate: true}, nil
		}
		if !errors.Is(err, bookingerrors.ErrBookingNotFound) {
			return nil, err
		}
	}

	if err := s.settlePayment(ctx, userID, form, booking); err != nil {
		return nil, err
	}

	if booking.Confirmable() {
		booking.Status = model.BookingConfirmed
	}

	s.assignCleanerEarnings(ctx, booking, breakdown)

	// Counted before the insert so the booking being persisted does
	// not count itself.
	firstPaid := false
	if booking.PaymentStatus == model.PaymentCompleted {
		paid, err := s.repo.CountPaidByEmail(ctx, booking.Email)
		if err != nil {
			s.cfg.Log.Warn("Failed to count prior paid bookings",
				"email", booking.Email,
				"error", err,
			)
		} else {
			firstPaid = paid == 0
		}
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingerrors.ErrDuplicatePaymentReference) {
			// Lost the insert race; the winner's booking is the result.
			existing, findErr := s.repo.FindByPaymentReference(ctx, booking.PaymentReference)
			if findErr != nil {
				return nil, findErr
			}
			return &SubmissionResult{Booking: existing, Duplicate: true}, nil
		}
		return nil, err
	}

	occurrences := s.fanOutRecurrences(ctx, booking, breakdown)

	s.runSideEffects(ctx, booking, resolution, firstPaid)

	return &SubmissionResult{
		Booking:     booking,
		Occurrences: occurrences,
		Discount:    resolution,
	}, nil
}

// settlePayment resolves the booking's payment exactly one way: a
// credits debit, a gateway-verified card charge, or nothing (booking
// stays unpaid).
func (s *bookingService) settlePayment(ctx context.Context, userID string, form *model.BookingForm, booking *model.Booking) error {
	switch form.PaymentMethod {
	case "credits":
		if userID == "" {
			return apperrors.Unauthorized("credits payment requires an authenticated user")
		}
		booking.PaymentReference = "credits-" + booking.Reference
		_, err := s.credits.ApplyDelta(ctx, userID, -booking.TotalAmount, model.CreditUsage,
			"credits", booking.PaymentReference, model.TransactionCompleted,
			map[string]any{"booking_reference": booking.Reference})
		if err != nil {
			booking.PaymentReference = ""
			return err
		}
		booking.PaymentStatus = model.PaymentCompleted
		return nil

	case model.PayMethodCard:
		verification, err := s.gateway.VerifyTransaction(ctx, form.PaymentReference)
		if err != nil {
			return apperrors.Internal("Payment verification failed", err)
		}
		booking.PaymentReference = form.PaymentReference
		if verification.Verified() {
			booking.PaymentStatus = model.PaymentCompleted
		} else {
			booking.PaymentStatus = model.PaymentFailed
		}
		return nil

	default:
		// No payment supplied. Admin-created and EFT bookings start
		// unpaid.
		booking.PaymentStatus = model.PaymentPending
		return nil
	}
}

// assignCleanerEarnings computes the pre-assigned cleaner's cut. The
// lookup failing is non-fatal: the booking persists without earnings.
func (s *bookingService) assignCleanerEarnings(ctx context.Context, booking *model.Booking, breakdown model.PriceBreakdown) {
	if booking.CleanerPreference == "" || booking.CleanerPreference == model.CleanerNoPreference {
		return
	}

	cleaner, err := s.cleaners.FindByCleanerID(ctx, booking.CleanerPreference)
	if err != nil {
		s.cfg.Log.Warn("Cleaner lookup failed, persisting booking without earnings",
			"cleaner_id", booking.CleanerPreference,
			"booking_reference", booking.Reference,
			"error", err,
		)
		return
	}

	earnings, rate := s.engine.CleanerEarnings(breakdown, cleaner.TotalJobs, s.cfg.VeteranJobThreshold)
	booking.CleanerEarnings = &earnings
	booking.CleanerEarningsPercentage = &rate
}

// fanOutRecurrences creates the future occurrences of a recurring
// booking. Each occurrence is inserted independently: one failure is
// logged and skipped, the rest of the series still lands.
func (s *bookingService) fanOutRecurrences(ctx context.Context, parent *model.Booking, breakdown model.PriceBreakdown) []*model.Booking {
	if parent.Frequency == model.FrequencyOneTime {
		return nil
	}

	dates, err := recurring.OccurrenceDates(parent.Frequency, parent.ScheduledDate, s.cfg.RecurringOccurrences)
	if err != nil {
		s.cfg.Log.Error("Failed to compute recurrence dates",
			"booking_reference", parent.Reference,
			"frequency", parent.Frequency,
			"error", err,
		)
		return nil
	}
	if len(dates) == 0 {
		return nil
	}

	var created []*model.Booking
	for i, date := range dates {
		occurrence := *parent
		occurrence.ID = ""
		occurrence.Reference = NewReference()
		occurrence.ScheduledDate = date
		occurrence.Status = model.BookingPending
		occurrence.PaymentStatus = model.PaymentPending
		occurrence.PaymentReference = ""
		occurrence.RecurringSequence = i + 1
		occurrence.ParentBookingID = parent.ID
		occurrence.CleanerEarnings = nil
		occurrence.CleanerEarningsPercentage = nil
		applyBreakdown(&occurrence, breakdown)

		if err := s.repo.Create(ctx, &occurrence); err != nil {
			s.cfg.Log.Error("Failed to create recurring occurrence",
				"parent_reference", parent.Reference,
				"sequence", i+1,
				"scheduled_date", date,
				"error", err,
			)
			continue
		}
		created = append(created, &occurrence)
	}

	return created
}

// runSideEffects fires the post-persist tasks. Each is independent and
// non-fatal: the booking already exists, a failed side effect must not
// unwind it.
func (s *bookingService) runSideEffects(ctx context.Context, booking *model.Booking, resolution *discountsvc.Resolution, firstPaid bool) {
	paid := booking.PaymentStatus == model.PaymentCompleted

	if paid && resolution != nil {
		if err := s.discounts.RecordUsage(ctx, resolution, booking.Reference, booking.Email, booking.TotalAmount); err != nil {
			s.cfg.Log.Error("Failed to record discount usage",
				"booking_reference", booking.Reference,
				"code", resolution.Code,
				"error", err,
			)
		}
	}

	if paid && firstPaid && s.referrals != nil {
		err := s.referrals.ProcessRewards(ctx, client.ReferralRewardRequest{
			RefereeEmail:     booking.Email,
			BookingReference: booking.Reference,
			BookingTotal:     booking.TotalAmount,
		})
		if err != nil {
			s.cfg.Log.Error("Failed to process referral rewards",
				"booking_reference", booking.Reference,
				"error", err,
			)
		}
	}

	if s.events != nil {
		var err error
		if booking.Status == model.BookingConfirmed {
			err = s.events.BookingConfirmed(ctx, booking)
		} else {
			err = s.events.BookingReceived(ctx, booking)
		}
		if err != nil {
			s.cfg.Log.Error("Failed to publish booking event",
				"booking_reference", booking.Reference,
				"status", booking.Status,
				"error", err,
			)
		}
	}
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	booking, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("booking", reference)
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetSeries(ctx context.Context, groupID string) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, apperrors.NotFoundWithID("recurring series", groupID)
	}
	return bookings, nil
}

// ValidateDiscount prices the form without persisting anything and
// resolves the code against the discountable base. Rejections come back
// in the resolution, not as errors.
func (s *bookingService) ValidateDiscount(ctx context.Context, code string, form *model.BookingForm) (*discountsvc.Resolution, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("discount code is required")
	}

	attrs := pricing.Attributes{
		Service:   form.Service,
		Bedrooms:  form.Bedrooms,
		Bathrooms: form.Bathrooms,
		Extras:    form.Extras,
		Frequency: form.Frequency,
	}
	base := s.engine.DiscountBase(attrs)
	if base <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown service type: %s", form.Service))
	}

	return s.discounts.Resolve(ctx, code, base)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Booking submission failed validation", details)
	}
	return apperrors.Validation(err.Error(), nil)
}

func applyBreakdown(booking *model.Booking, breakdown model.PriceBreakdown) {
	booking.Subtotal = breakdown.Subtotal
	booking.FrequencyDiscount = breakdown.FrequencyDiscount
	booking.DiscountCodeDiscount = breakdown.DiscountCodeDiscount
	booking.ServiceFee = breakdown.ServiceFee
	booking.Tip = breakdown.Tip
	booking.TotalAmount = breakdown.Total
}
