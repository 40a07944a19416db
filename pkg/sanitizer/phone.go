package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ZA first: most customers enter local 0XX numbers without a country
// prefix.
var supportedRegions = []string{
	"ZA",
	"GB",
}

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
