package locale

import "testing"

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"south african mobile", "+27821234567", "Africa/Johannesburg"},
		{"south african without plus", "27821234567", "Africa/Johannesburg"},
		{"british mobile", "+447911123456", "Europe/London"},
		{"unknown prefix falls back", "+15551234567", DefaultTimezone},
		{"empty phone falls back", "", DefaultTimezone},
		{"padded input", "  +27821234567  ", "Africa/Johannesburg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferTimezoneFromPhone(tt.phone); got != tt.want {
				t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestInferCountryFromPhone(t *testing.T) {
	if c := InferCountryFromPhone("+27821234567"); c == nil || c.Code != "ZA" {
		t.Errorf("expected ZA, got %+v", c)
	}
	if c := InferCountryFromPhone("+447911123456"); c == nil || c.Code != "GB" {
		t.Errorf("expected GB, got %+v", c)
	}
	if c := InferCountryFromPhone("+15551234567"); c != nil {
		t.Errorf("expected nil for unsupported prefix, got %+v", c)
	}
}

func TestDetectRegion(t *testing.T) {
	if got := DetectRegion("Europe/London"); got != "GB" {
		t.Errorf("expected GB, got %s", got)
	}
	if got := DetectRegion("Africa/Johannesburg"); got != "ZA" {
		t.Errorf("expected ZA, got %s", got)
	}
	if got := DetectRegion("Mars/Olympus"); got != "ZA" {
		t.Errorf("unknown zones default to ZA, got %s", got)
	}
}
