package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookingerrors "bokclean/internal/bookings/errors"
	"bokclean/internal/bookings/validator"
	creditsvc "bokclean/internal/credits/service"
	discountsvc "bokclean/internal/discounts/service"
	"bokclean/internal/pricing"
	"bokclean/pkg/client"
	"bokclean/pkg/config"
	apperrors "bokclean/pkg/errors"
	"bokclean/pkg/logger"
	"bokclean/pkg/model"
)

type mockBookingRepository struct {
	bookings   []*model.Booking
	inserted   []model.Booking // value snapshots taken at insert time
	failCreate func(b *model.Booking) error
	paidCounts map[string]int64
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{paidCounts: make(map[string]int64)}
}

func (m *mockBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	if m.failCreate != nil {
		if err := m.failCreate(booking); err != nil {
			return err
		}
	}
	if booking.PaymentReference != "" {
		for _, b := range m.bookings {
			if b.PaymentReference == booking.PaymentReference {
				return bookingerrors.ErrDuplicatePaymentReference
			}
		}
	}
	booking.ID = fmt.Sprintf("bk-%d", len(m.bookings)+1)
	m.bookings = append(m.bookings, booking)
	m.inserted = append(m.inserted, *booking)
	return nil
}

func (m *mockBookingRepository) FindByReference(_ context.Context, reference string) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.Reference == reference {
			return b, nil
		}
	}
	return nil, bookingerrors.ErrBookingNotFound
}

func (m *mockBookingRepository) FindByPaymentReference(_ context.Context, paymentReference string) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.PaymentReference == paymentReference {
			return b, nil
		}
	}
	return nil, bookingerrors.ErrBookingNotFound
}

func (m *mockBookingRepository) FindByGroupID(_ context.Context, groupID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.RecurringGroupID == groupID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) CountPaidByEmail(_ context.Context, email string) (int64, error) {
	return m.paidCounts[email], nil
}

func (m *mockBookingRepository) EnsureIndexes(_ context.Context) error {
	return nil
}

type mockCleanerRepository struct {
	cleaners map[string]*model.Cleaner
}

func (m *mockCleanerRepository) FindByCleanerID(_ context.Context, cleanerID string) (*model.Cleaner, error) {
	if c, ok := m.cleaners[cleanerID]; ok {
		return c, nil
	}
	return nil, bookingerrors.ErrCleanerNotFound
}

type mockDiscountService struct {
	resolution  *discountsvc.Resolution
	usageCalls  int
	lastBooking string
}

func (m *mockDiscountService) Resolve(_ context.Context, code string, _ float64) (*discountsvc.Resolution, error) {
	if m.resolution != nil {
		return m.resolution, nil
	}
	return &discountsvc.Resolution{Accepted: false, Code: code, Reason: "NOT_FOUND"}, nil
}

func (m *mockDiscountService) RecordUsage(_ context.Context, _ *discountsvc.Resolution, bookingReference, _ string, _ float64) error {
	m.usageCalls++
	m.lastBooking = bookingReference
	return nil
}

type mockCreditService struct {
	balance    float64
	deltaCalls int
}

func (m *mockCreditService) ApplyDelta(_ context.Context, _ string, amount float64, _, _, _, status string, _ map[string]any) (*creditsvc.DeltaResult, error) {
	if status == model.TransactionCompleted && amount < 0 && m.balance+amount < -model.AmountTolerance {
		return nil, apperrors.InsufficientCredits(-amount, m.balance)
	}
	m.deltaCalls++
	m.balance += amount
	return &creditsvc.DeltaResult{NewBalance: m.balance, TransactionID: "tx-1"}, nil
}

func (m *mockCreditService) Purchase(_ context.Context, _ string, _ float64, _, _ string) (*creditsvc.DeltaResult, error) {
	return nil, errors.New("not used")
}

func (m *mockCreditService) ApproveEFT(_ context.Context, _, _ string, _ float64) (*creditsvc.DeltaResult, error) {
	return nil, errors.New("not used")
}

func (m *mockCreditService) Balance(_ context.Context, _ string) (float64, error) {
	return m.balance, nil
}

func (m *mockCreditService) Transactions(_ context.Context, _ string, _ int, _ int64) ([]*model.CreditTransaction, int64, error) {
	return nil, 0, nil
}

type mockGateway struct {
	status string
	err    error
}

func (m *mockGateway) VerifyTransaction(_ context.Context, reference string) (*client.PaymentVerification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &client.PaymentVerification{Reference: reference, Status: m.status}, nil
}

type mockReferrals struct {
	calls []client.ReferralRewardRequest
}

func (m *mockReferrals) ProcessRewards(_ context.Context, req client.ReferralRewardRequest) error {
	m.calls = append(m.calls, req)
	return nil
}

type mockEvents struct {
	received  int
	confirmed int
}

func (m *mockEvents) BookingReceived(_ context.Context, _ *model.Booking) error {
	m.received++
	return nil
}

func (m *mockEvents) BookingConfirmed(_ context.Context, _ *model.Booking) error {
	m.confirmed++
	return nil
}

type fixture struct {
	repo      *mockBookingRepository
	cleaners  *mockCleanerRepository
	discounts *mockDiscountService
	credits   *mockCreditService
	gateway   *mockGateway
	referrals *mockReferrals
	events    *mockEvents
	engine    *pricing.Engine
	service   BookingService
}

func newFixture() *fixture {
	cfg := &config.Config{
		Log:                  logger.NewNop(),
		RecurringOccurrences: 3,
		VeteranJobThreshold:  50,
	}
	f := &fixture{
		repo:      newMockBookingRepository(),
		cleaners:  &mockCleanerRepository{cleaners: make(map[string]*model.Cleaner)},
		discounts: &mockDiscountService{},
		credits:   &mockCreditService{},
		gateway:   &mockGateway{status: "success"},
		referrals: &mockReferrals{},
		events:    &mockEvents{},
		engine:    pricing.NewEngine(nil),
	}
	f.service = NewBookingService(
		f.repo, f.cleaners, validator.NewBookingFormValidator(logger.NewNop()),
		f.engine, f.discounts, f.credits, f.gateway, f.referrals, f.events, cfg,
	)
	return f
}

func validForm() *model.BookingForm {
	return &model.BookingForm{
		Service:          model.ServiceStandard,
		Bedrooms:         2,
		Bathrooms:        1,
		Frequency:        model.FrequencyOneTime,
		ScheduledDate:    time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		ScheduledTime:    "09:00",
		StreetAddress:    "12 Long Street",
		Suburb:           "Gardens",
		City:             "Cape Town",
		FirstName:        "Thandi",
		LastName:         "Nkosi",
		Email:            "thandi@example.com",
		Phone:            "082 123 4567",
		PaymentMethod:    model.PayMethodCard,
		PaymentReference: "PAY-123",
	}
}

func TestSubmitCardPayment(t *testing.T) {
	f := newFixture()

	result, err := f.service.Submit(context.Background(), "user-1", validForm())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	booking := result.Booking
	if booking.Status != model.BookingConfirmed {
		t.Errorf("expected confirmed booking, got %s", booking.Status)
	}
	if booking.PaymentStatus != model.PaymentCompleted {
		t.Errorf("expected completed payment, got %s", booking.PaymentStatus)
	}
	if booking.Reference == "" {
		t.Error("expected a booking reference")
	}
	if booking.Phone != "+27821234567" {
		t.Errorf("expected normalized phone, got %s", booking.Phone)
	}

	expected := f.engine.Quote(pricing.Attributes{
		Service:   model.ServiceStandard,
		Bedrooms:  2,
		Bathrooms: 1,
		Frequency: model.FrequencyOneTime,
	}, 0)
	if booking.TotalAmount != expected.Total {
		t.Errorf("expected total %v, got %v", expected.Total, booking.TotalAmount)
	}

	if f.events.confirmed != 1 {
		t.Errorf("expected 1 confirmed event, got %d", f.events.confirmed)
	}
}

func TestSubmitIdempotentOnPaymentReference(t *testing.T) {
	f := newFixture()

	first, err := f.service.Submit(context.Background(), "user-1", validForm())
	if err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}

	second, err := f.service.Submit(context.Background(), "user-1", validForm())
	if err != nil {
		t.Fatalf("second Submit returned error: %v", err)
	}

	if !second.Duplicate {
		t.Error("expected second submission to be flagged duplicate")
	}
	if second.Booking.Reference != first.Booking.Reference {
		t.Errorf("expected original reference %s, got %s", first.Booking.Reference, second.Booking.Reference)
	}
	if len(f.repo.bookings) != 1 {
		t.Errorf("expected exactly one persisted booking, got %d", len(f.repo.bookings))
	}
}

func TestSubmitInsufficientCreditsPersistsNothing(t *testing.T) {
	f := newFixture()
	f.credits.balance = 80

	form := validForm()
	form.PaymentMethod = "credits"
	form.PaymentReference = ""

	_, err := f.service.Submit(context.Background(), "user-1", form)
	if err == nil {
		t.Fatal("expected insufficient credits error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInsufficientCredits {
		t.Errorf("expected code %s, got %v", apperrors.CodeInsufficientCredits, err)
	}
	if len(f.repo.bookings) != 0 {
		t.Errorf("no booking may persist on failed settlement, got %d", len(f.repo.bookings))
	}
}

func TestSubmitCreditsPayment(t *testing.T) {
	f := newFixture()
	f.credits.balance = 10000

	form := validForm()
	form.PaymentMethod = "credits"
	form.PaymentReference = ""

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	booking := result.Booking
	if booking.PaymentReference != "credits-"+booking.Reference {
		t.Errorf("expected internal credits token, got %s", booking.PaymentReference)
	}
	if booking.Status != model.BookingConfirmed {
		t.Errorf("expected confirmed booking, got %s", booking.Status)
	}
	if f.credits.balance != 10000-booking.TotalAmount {
		t.Errorf("expected balance %v, got %v", 10000-booking.TotalAmount, f.credits.balance)
	}
}

func TestSubmitCreditsRequiresIdentity(t *testing.T) {
	f := newFixture()

	form := validForm()
	form.PaymentMethod = "credits"
	form.PaymentReference = ""

	_, err := f.service.Submit(context.Background(), "", form)
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnauthorized {
		t.Errorf("expected code %s, got %v", apperrors.CodeUnauthorized, err)
	}
}

func TestSubmitFailedCardVerification(t *testing.T) {
	f := newFixture()
	f.gateway.status = "failed"

	result, err := f.service.Submit(context.Background(), "user-1", validForm())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	booking := result.Booking
	if booking.PaymentStatus != model.PaymentFailed {
		t.Errorf("expected failed payment, got %s", booking.PaymentStatus)
	}
	if booking.Status != model.BookingPending {
		t.Errorf("unpaid booking must not be confirmed, got %s", booking.Status)
	}
	if f.events.received != 1 || f.events.confirmed != 0 {
		t.Errorf("expected received event only, got received=%d confirmed=%d", f.events.received, f.events.confirmed)
	}
}

func TestSubmitRejectedDiscountFails(t *testing.T) {
	f := newFixture()
	f.discounts.resolution = &discountsvc.Resolution{Accepted: false, Code: "DEAD10", Reason: "EXPIRED"}

	form := validForm()
	form.DiscountCode = "DEAD10"

	_, err := f.service.Submit(context.Background(), "user-1", form)
	if err == nil {
		t.Fatal("expected discount rejection")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeDiscountRejected {
		t.Errorf("expected code %s, got %v", apperrors.CodeDiscountRejected, err)
	}
	if appErr.Details["reason"] != "EXPIRED" {
		t.Errorf("expected reason EXPIRED, got %v", appErr.Details["reason"])
	}
	if len(f.repo.bookings) != 0 {
		t.Errorf("no booking may persist on rejected discount, got %d", len(f.repo.bookings))
	}
}

func TestSubmitAcceptedDiscountRecordsUsage(t *testing.T) {
	f := newFixture()
	f.discounts.resolution = &discountsvc.Resolution{Accepted: true, Code: "SAVE20", Amount: 20}

	form := validForm()
	form.DiscountCode = "SAVE20"

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if result.Booking.DiscountCodeDiscount != 20 {
		t.Errorf("expected discount 20 on breakdown, got %v", result.Booking.DiscountCodeDiscount)
	}
	if f.discounts.usageCalls != 1 {
		t.Errorf("expected 1 usage record, got %d", f.discounts.usageCalls)
	}
	if f.discounts.lastBooking != result.Booking.Reference {
		t.Errorf("usage must be keyed by booking reference, got %s", f.discounts.lastBooking)
	}
}

func TestSubmitRecurringFanOut(t *testing.T) {
	f := newFixture()

	form := validForm()
	form.Frequency = model.FrequencyWeekly

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(result.Occurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(result.Occurrences))
	}
	if !result.Booking.IsRecurring || result.Booking.RecurringGroupID == "" {
		t.Error("parent must carry the recurring group")
	}

	anchor, _ := time.Parse("2006-01-02", form.ScheduledDate)
	for i, occ := range result.Occurrences {
		if occ.RecurringSequence != i+1 {
			t.Errorf("expected sequence %d, got %d", i+1, occ.RecurringSequence)
		}
		if occ.Status != model.BookingPending || occ.PaymentStatus != model.PaymentPending {
			t.Errorf("occurrence %d must start pending/unpaid, got %s/%s", i+1, occ.Status, occ.PaymentStatus)
		}
		if occ.PaymentReference != "" {
			t.Errorf("occurrence %d must not inherit the payment reference", i+1)
		}
		if occ.ParentBookingID != result.Booking.ID {
			t.Errorf("occurrence %d must point at the parent", i+1)
		}
		want := anchor.AddDate(0, 0, 7*(i+1)).Format("2006-01-02")
		if occ.ScheduledDate != want {
			t.Errorf("occurrence %d: expected date %s, got %s", i+1, want, occ.ScheduledDate)
		}
	}
}

func TestSubmitRecurringAnchorStoredWithLinkage(t *testing.T) {
	f := newFixture()

	form := validForm()
	form.Frequency = model.FrequencyWeekly

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	// The anchor document as it was written, not as the in-memory
	// struct looks after fan-out.
	anchor := f.repo.inserted[0]
	if !anchor.IsRecurring || anchor.RecurringGroupID == "" {
		t.Fatalf("stored anchor must carry its series linkage, got is_recurring=%v group=%q",
			anchor.IsRecurring, anchor.RecurringGroupID)
	}
	if anchor.RecurringGroupID != result.Booking.RecurringGroupID {
		t.Errorf("stored group %s does not match result group %s",
			anchor.RecurringGroupID, result.Booking.RecurringGroupID)
	}
	if anchor.RecurringSequence != 0 {
		t.Errorf("anchor must be sequence 0, got %d", anchor.RecurringSequence)
	}

	series, err := f.service.GetSeries(context.Background(), anchor.RecurringGroupID)
	if err != nil {
		t.Fatalf("GetSeries returned error: %v", err)
	}
	if len(series) != 4 {
		t.Errorf("expected anchor plus 3 occurrences in the series, got %d", len(series))
	}
}

func TestSubmitRecurringOccurrenceFailureIsIsolated(t *testing.T) {
	f := newFixture()
	inserts := 0
	f.repo.failCreate = func(_ *model.Booking) error {
		inserts++
		// Parent is insert 1; fail the second occurrence (insert 3).
		if inserts == 3 {
			return errors.New("write concern timeout")
		}
		return nil
	}

	form := validForm()
	form.Frequency = model.FrequencyWeekly

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(result.Occurrences) != 2 {
		t.Errorf("expected 2 surviving occurrences, got %d", len(result.Occurrences))
	}
	if len(f.repo.bookings) != 3 {
		t.Errorf("expected parent plus 2 occurrences persisted, got %d", len(f.repo.bookings))
	}
}

func TestSubmitOneTimeHasNoFanOut(t *testing.T) {
	f := newFixture()

	result, err := f.service.Submit(context.Background(), "user-1", validForm())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(result.Occurrences) != 0 {
		t.Errorf("one-time booking must not fan out, got %d occurrences", len(result.Occurrences))
	}
	if result.Booking.IsRecurring {
		t.Error("one-time booking must not be marked recurring")
	}
}

func TestSubmitFirstPaidBookingTriggersReferral(t *testing.T) {
	f := newFixture()

	result, err := f.service.Submit(context.Background(), "user-1", validForm())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(f.referrals.calls) != 1 {
		t.Fatalf("expected 1 referral call, got %d", len(f.referrals.calls))
	}
	if f.referrals.calls[0].BookingReference != result.Booking.Reference {
		t.Errorf("referral keyed by wrong reference: %s", f.referrals.calls[0].BookingReference)
	}

	// A repeat customer does not trigger rewards again.
	f.repo.paidCounts["thandi@example.com"] = 1
	form := validForm()
	form.PaymentReference = "PAY-456"
	if _, err := f.service.Submit(context.Background(), "user-1", form); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(f.referrals.calls) != 1 {
		t.Errorf("expected no second referral call, got %d", len(f.referrals.calls))
	}
}

func TestSubmitCleanerEarnings(t *testing.T) {
	f := newFixture()
	f.cleaners.cleaners["cl-7"] = &model.Cleaner{CleanerID: "cl-7", FullName: "Sipho M", TotalJobs: 80, IsActive: true}

	form := validForm()
	form.CleanerPreference = "cl-7"

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	booking := result.Booking
	if booking.CleanerEarnings == nil || booking.CleanerEarningsPercentage == nil {
		t.Fatal("expected cleaner earnings to be set")
	}
	if *booking.CleanerEarningsPercentage != pricing.VeteranEarningsRate {
		t.Errorf("expected veteran rate, got %v", *booking.CleanerEarningsPercentage)
	}
}

func TestSubmitUnknownCleanerIsNonFatal(t *testing.T) {
	f := newFixture()

	form := validForm()
	form.CleanerPreference = "cl-missing"

	result, err := f.service.Submit(context.Background(), "user-1", form)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Booking.CleanerEarnings != nil {
		t.Error("earnings must stay unset when the cleaner lookup fails")
	}
}

func TestSubmitInvalidFormRejected(t *testing.T) {
	f := newFixture()

	form := validForm()
	form.Service = "window-washing"

	_, err := f.service.Submit(context.Background(), "user-1", form)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestValidateDiscountDoesNotPersist(t *testing.T) {
	f := newFixture()
	f.discounts.resolution = &discountsvc.Resolution{Accepted: true, Code: "SAVE20", Amount: 20}

	resolution, err := f.service.ValidateDiscount(context.Background(), "SAVE20", validForm())
	if err != nil {
		t.Fatalf("ValidateDiscount returned error: %v", err)
	}
	if !resolution.Accepted {
		t.Error("expected accepted resolution")
	}
	if len(f.repo.bookings) != 0 || f.discounts.usageCalls != 0 {
		t.Error("validation must not persist anything")
	}
}
