package service

import (
	"context"
	"testing"
	"time"

	discounterrors "bokclean/internal/discounts/errors"
	"bokclean/pkg/config"
	"bokclean/pkg/logger"
	"bokclean/pkg/model"
)

type mockDiscountRepository struct {
	codes       map[string]*model.DiscountCode
	vouchers    map[string]*model.Voucher
	usages      map[string]*model.DiscountUsage
	redeemed    []string
	insertCalls int
}

func newMockDiscountRepository() *mockDiscountRepository {
	return &mockDiscountRepository{
		codes:    make(map[string]*model.DiscountCode),
		vouchers: make(map[string]*model.Voucher),
		usages:   make(map[string]*model.DiscountUsage),
	}
}

func (m *mockDiscountRepository) FindCodeByCode(_ context.Context, code string) (*model.DiscountCode, error) {
	if c, ok := m.codes[code]; ok {
		return c, nil
	}
	return nil, discounterrors.ErrNotFound
}

func (m *mockDiscountRepository) FindVoucherByCode(_ context.Context, code string) (*model.Voucher, error) {
	if v, ok := m.vouchers[code]; ok {
		return v, nil
	}
	return nil, discounterrors.ErrNotFound
}

func (m *mockDiscountRepository) MarkVoucherRedeemed(_ context.Context, voucherID string) error {
	m.redeemed = append(m.redeemed, voucherID)
	return nil
}

func (m *mockDiscountRepository) InsertUsage(_ context.Context, usage *model.DiscountUsage) error {
	m.insertCalls++
	if _, ok := m.usages[usage.BookingReference]; ok {
		return discounterrors.ErrUsageExists
	}
	m.usages[usage.BookingReference] = usage
	return nil
}

func (m *mockDiscountRepository) FindUsageByBookingReference(_ context.Context, ref string) (*model.DiscountUsage, error) {
	if u, ok := m.usages[ref]; ok {
		return u, nil
	}
	return nil, discounterrors.ErrNotFound
}

func (m *mockDiscountRepository) EnsureIndexes(_ context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{Log: logger.NewNop()}
}

func activeCode(code string) *model.DiscountCode {
	return &model.DiscountCode{
		ID:        "code-1",
		Code:      code,
		Type:      model.DiscountFixed,
		Value:     20,
		IsActive:  true,
		ValidFrom: time.Now().UTC().Add(-24 * time.Hour),
	}
}

func TestResolveFixedCode(t *testing.T) {
	repo := newMockDiscountRepository()
	repo.codes["SAVE10"] = activeCode("SAVE10")
	svc := NewDiscountService(repo, testConfig())

	res, err := svc.Resolve(context.Background(), "save10", 441)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("expected acceptance, got reason %s", res.Reason)
	}
	if res.Amount != 20 {
		t.Errorf("expected amount 20, got %v", res.Amount)
	}
}

func TestResolveFixedCodeClampedToOrderTotal(t *testing.T) {
	repo := newMockDiscountRepository()
	code := activeCode("SAVE10")
	code.Value = 500
	repo.codes["SAVE10"] = code
	svc := NewDiscountService(repo, testConfig())

	res, err := svc.Resolve(context.Background(), "SAVE10", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Amount != 100 {
		t.Errorf("expected amount clamped to 100, got %v", res.Amount)
	}
}

func TestResolvePercentageCodeWithCap(t *testing.T) {
	maximum := 30.0
	repo := newMockDiscountRepository()
	repo.codes["TEN"] = &model.DiscountCode{
		Code:            "TEN",
		Type:            model.DiscountPercentage,
		Value:           10,
		MaximumDiscount: &maximum,
		IsActive:        true,
		ValidFrom:       time.Now().UTC().Add(-time.Hour),
	}
	svc := NewDiscountService(repo, testConfig())

	res, err := svc.Resolve(context.Background(), "TEN", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10% of 500 is 50, capped at 30.
	if res.Amount != 30 {
		t.Errorf("expected capped amount 30, got %v", res.Amount)
	}
}

func TestResolveRejectionReasons(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name   string
		setup  func(*mockDiscountRepository)
		code   string
		total  float64
		reason string
	}{
		{
			name:   "unknown code",
			setup:  func(m *mockDiscountRepository) {},
			code:   "NOPE",
			total:  100,
			reason: discounterrors.ReasonNotFound,
		},
		{
			name: "inactive code",
			setup: func(m *mockDiscountRepository) {
				c := activeCode("OFF")
				c.IsActive = false
				m.codes["OFF"] = c
			},
			code:   "OFF",
			total:  100,
			reason: discounterrors.ReasonInactive,
		},
		{
			name: "expired code",
			setup: func(m *mockDiscountRepository) {
				c := activeCode("OLD")
				c.ValidUntil = &past
				m.codes["OLD"] = c
			},
			code:   "OLD",
			total:  100,
			reason: discounterrors.ReasonExpired,
		},
		{
			name: "not yet valid",
			setup: func(m *mockDiscountRepository) {
				c := activeCode("SOON")
				c.ValidFrom = time.Now().UTC().Add(time.Hour)
				m.codes["SOON"] = c
			},
			code:   "SOON",
			total:  100,
			reason: discounterrors.ReasonExpired,
		},
		{
			name: "below minimum order",
			setup: func(m *mockDiscountRepository) {
				c := activeCode("BIG")
				c.MinimumOrderAmount = 300
				m.codes["BIG"] = c
			},
			code:   "BIG",
			total:  100,
			reason: discounterrors.ReasonBelowMinimum,
		},
		{
			name: "redeemed voucher",
			setup: func(m *mockDiscountRepository) {
				m.vouchers["GIFT"] = &model.Voucher{
					ID:         "v-1",
					Code:       "GIFT",
					Type:       model.DiscountFixed,
					Value:      50,
					IsActive:   true,
					IsRedeemed: true,
					ValidFrom:  past,
				}
			},
			code:   "GIFT",
			total:  100,
			reason: discounterrors.ReasonAlreadyRedeemed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockDiscountRepository()
			tt.setup(repo)
			svc := NewDiscountService(repo, testConfig())

			res, err := svc.Resolve(context.Background(), tt.code, tt.total)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Accepted {
				t.Fatal("expected rejection")
			}
			if res.Reason != tt.reason {
				t.Errorf("expected reason %s, got %s", tt.reason, res.Reason)
			}
		})
	}
}

func TestRecordUsageIdempotent(t *testing.T) {
	repo := newMockDiscountRepository()
	repo.codes["SAVE10"] = activeCode("SAVE10")
	svc := NewDiscountService(repo, testConfig())

	res, err := svc.Resolve(context.Background(), "SAVE10", 441)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RecordUsage(context.Background(), res, "BK-1", "a@b.co.za", 441); err != nil {
		t.Fatalf("first usage: %v", err)
	}
	if err := svc.RecordUsage(context.Background(), res, "BK-1", "a@b.co.za", 441); err != nil {
		t.Fatalf("retried usage should be a no-op, got: %v", err)
	}
	if len(repo.usages) != 1 {
		t.Errorf("expected exactly one usage row, got %d", len(repo.usages))
	}
	if repo.insertCalls != 1 {
		t.Errorf("retried usage must short-circuit on the existing row, got %d inserts", repo.insertCalls)
	}
}

func TestRecordUsageRedeemsVoucher(t *testing.T) {
	repo := newMockDiscountRepository()
	repo.vouchers["GIFT"] = &model.Voucher{
		ID:        "v-1",
		Code:      "GIFT",
		Type:      model.DiscountFixed,
		Value:     50,
		IsActive:  true,
		ValidFrom: time.Now().UTC().Add(-time.Hour),
	}
	svc := NewDiscountService(repo, testConfig())

	res, err := svc.Resolve(context.Background(), "GIFT", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RecordUsage(context.Background(), res, "BK-2", "a@b.co.za", 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.redeemed) != 1 || repo.redeemed[0] != "v-1" {
		t.Errorf("expected voucher v-1 redeemed, got %v", repo.redeemed)
	}
}

func TestRecordUsageSkipsRejectedResolution(t *testing.T) {
	repo := newMockDiscountRepository()
	svc := NewDiscountService(repo, testConfig())

	res := &Resolution{Accepted: false, Reason: discounterrors.ReasonNotFound}
	if err := svc.RecordUsage(context.Background(), res, "BK-3", "a@b.co.za", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.usages) != 0 {
		t.Error("expected no usage rows for a rejected resolution")
	}
}
