package recurring

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"bokclean/pkg/model"
)

func TestOccurrencesWeekly(t *testing.T) {
	anchor := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got := Occurrences(model.FrequencyWeekly, anchor, 3)

	want := []time.Time{
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("weekly occurrences = %v, want %v", got, want)
	}
}

func TestOccurrencesBiWeekly(t *testing.T) {
	anchor := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got := Occurrences(model.FrequencyBiWeekly, anchor, 2)

	want := []time.Time{
		time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bi-weekly occurrences = %v, want %v", got, want)
	}
}

func TestOccurrencesMonthlyEndOfMonthClamping(t *testing.T) {
	// Jan 31 in a leap year: Feb clamps to 29, later months restore 31/30.
	got, err := OccurrenceDates(model.FrequencyMonthly, "2024-01-31", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2024-02-29", "2024-03-31", "2024-04-30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("monthly occurrences = %v, want %v", got, want)
	}
}

func TestOccurrencesMonthlyNonLeapFebruary(t *testing.T) {
	got, err := OccurrenceDates(model.FrequencyMonthly, "2023-01-31", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2023-02-28"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("monthly occurrences = %v, want %v", got, want)
	}
}

func TestOccurrencesOneTimeEmpty(t *testing.T) {
	anchor := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got := Occurrences(model.FrequencyOneTime, anchor, 3)

	if len(got) != 0 {
		t.Errorf("expected empty sequence for one-time, got %v", got)
	}
}

func TestOccurrenceDatesInvalidAnchor(t *testing.T) {
	_, err := OccurrenceDates(model.FrequencyWeekly, "31-01-2024", 3)
	if err == nil {
		t.Fatal("expected error for malformed anchor date")
	}
}

func TestNewGroupID(t *testing.T) {
	a := NewGroupID()
	b := NewGroupID()

	if !strings.HasPrefix(a, "REC-") {
		t.Errorf("expected REC- prefix, got %s", a)
	}
	if a == b {
		t.Error("expected unique group IDs")
	}
}
