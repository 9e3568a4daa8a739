package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no country prefix.
// The demo dataset is Mexican, so MX is the sensible fallback.
const DefaultRegion = "MX"

// Validation is the outcome of parsing a lead's phone number
type Validation struct {
	IsValid       bool   `json:"isValid"`
	E164          string `json:"e164"`
	International string `json:"international"`
	National      string `json:"national"`
	Region        string `json:"region"`
	IsMobile      bool   `json:"isMobile"`
}

// Validate parses a phone number and reports its canonical formats.
// region may be empty, in which case DefaultRegion applies.
func Validate(number, region string) (*Validation, error) {
	if number == "" {
		return nil, fmt.Errorf("phone number cannot be empty")
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	numberType := phonenumbers.GetNumberType(parsed)

	return &Validation{
		IsValid:       phonenumbers.IsValidNumber(parsed),
		E164:          phonenumbers.Format(parsed, phonenumbers.E164),
		International: phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL),
		National:      phonenumbers.Format(parsed, phonenumbers.NATIONAL),
		Region:        phonenumbers.GetRegionCodeForNumber(parsed),
		IsMobile:      numberType == phonenumbers.MOBILE || numberType == phonenumbers.FIXED_LINE_OR_MOBILE,
	}, nil
}

// Normalize returns the E.164 form of a valid number
func Normalize(number, region string) (string, error) {
	v, err := Validate(number, region)
	if err != nil {
		return "", err
	}
	if !v.IsValid {
		return "", fmt.Errorf("invalid phone number")
	}
	return v.E164, nil
}

// WhatsAppNumber returns the digits-only form the WhatsApp gateway
// expects ("+52 998 123 4567" becomes "529981234567")
func WhatsAppNumber(number, region string) (string, error) {
	e164, err := Normalize(number, region)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(e164, "+"), nil
}
