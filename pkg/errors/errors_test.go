package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("expected errors.Is to unwrap to the original error")
	}
}

func TestDiscountRejected(t *testing.T) {
	err := DiscountRejected("EXPIRED", "This discount code has expired")

	if err.Code != CodeDiscountRejected {
		t.Errorf("expected code %s, got %s", CodeDiscountRejected, err.Code)
	}
	if err.Details["reason"] != "EXPIRED" {
		t.Errorf("expected reason EXPIRED, got %v", err.Details["reason"])
	}
	if err.Details["field"] != "discount_code" {
		t.Errorf("expected field discount_code, got %v", err.Details["field"])
	}
}

func TestInsufficientCredits(t *testing.T) {
	err := InsufficientCredits(100, 80)

	if err.Code != CodeInsufficientCredits {
		t.Errorf("expected code %s, got %s", CodeInsufficientCredits, err.Code)
	}
	if err.HTTPStatus != http.StatusPaymentRequired {
		t.Errorf("expected status %d, got %d", http.StatusPaymentRequired, err.HTTPStatus)
	}
	if err.Details["available"] != 80.0 {
		t.Errorf("expected available 80, got %v", err.Details["available"])
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)
	if appErr.Code != CodeInternal {
		t.Errorf("expected plain errors to surface as %s, got %s", CodeInternal, appErr.Code)
	}

	declined := PaymentDeclined("card verification failed")
	if got := AsAppError(declined); got != declined {
		t.Errorf("expected AsAppError to pass AppError through unchanged")
	}
}
