package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  12 Oak Avenue  ",
			want:  "12 Oak Avenue",
		},
		{
			name:  "multiple spaces between words",
			input: "12    Oak    Avenue",
			want:  "12 Oak Avenue",
		},
		{
			name:  "tabs and newlines",
			input: "12\tOak\nAvenue",
			want:  "12 Oak Avenue",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "uppercase domain",
			input: "Thandi@Example.COM",
			want:  "thandi@example.com",
		},
		{
			name:  "surrounding whitespace",
			input: "  user@mail.co.za ",
			want:  "user@mail.co.za",
		},
		{
			name:  "already normalized",
			input: "user@mail.co.za",
			want:  "user@mail.co.za",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEmail(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDiscountCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase code",
			input: "welcome10",
			want:  "WELCOME10",
		},
		{
			name:  "internal spaces removed",
			input: " welcome 10 ",
			want:  "WELCOME10",
		},
		{
			name:  "idempotent",
			input: "WELCOME10",
			want:  "WELCOME10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDiscountCode(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDiscountCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
