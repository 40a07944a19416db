package locale

import (
	"strings"
)

const (
	DefaultTimezone = "Africa/Johannesburg"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "ZA", "GB")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Valid phone number prefixes (e.g., ["+27", "27"])
	DefaultTimezone string   // IANA timezone identifier
}

var (
	Countries = map[string]Country{
		"ZA": {
			Code:            "ZA",
			Name:            "South Africa",
			PhonePrefixes:   []string{"+27", "27"},
			DefaultTimezone: "Africa/Johannesburg",
		},
		"GB": {
			Code:            "GB",
			Name:            "United Kingdom",
			PhonePrefixes:   []string{"+44", "44"},
			DefaultTimezone: "Europe/London",
		},
	}

	TimeZoneTags = map[string][]string{
		"ZA": {"Africa/Johannesburg", "SAST"},
		"GB": {"Europe/London", "GMT", "BST"},
	}
)

func DetectRegion(tz string) string {
	for region, zones := range TimeZoneTags {
		for _, z := range zones {
			if strings.EqualFold(tz, z) {
				return region
			}
		}
	}
	return "ZA"
}
