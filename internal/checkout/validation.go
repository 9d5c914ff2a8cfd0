package checkout

import (
	"regexp"
	"strings"

	"storefront/internal/model"
)

var (
	emailPattern      = regexp.MustCompile(`\S+@\S+\.\S+`)
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// Validate checks every billing field and returns one message per invalid
// field, or nil when the form is complete.
func Validate(d model.BillingDetails) model.FieldErrors {
	errs := model.FieldErrors{}

	if blank(d.CardHolder) {
		errs["cardHolder"] = "Cardholder name is required"
	}

	switch {
	case blank(d.Email):
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(d.Email):
		errs["email"] = "Email is invalid"
	}

	switch {
	case blank(d.CardNumber):
		errs["cardNumber"] = "Card number is required"
	case !cardNumberPattern.MatchString(NormaliseCardNumber(d.CardNumber)):
		errs["cardNumber"] = "Card number must be 16 digits"
	}

	switch {
	case blank(d.ExpiryDate):
		errs["expiryDate"] = "Expiry date is required"
	case !expiryPattern.MatchString(d.ExpiryDate):
		errs["expiryDate"] = "Use MM/YY format"
	}

	switch {
	case blank(d.CVV):
		errs["cvv"] = "CVV is required"
	case !cvvPattern.MatchString(d.CVV):
		errs["cvv"] = "CVV must be 3 or 4 digits"
	}

	if blank(d.Address) {
		errs["address"] = "Address is required"
	}
	if blank(d.City) {
		errs["city"] = "City is required"
	}
	if blank(d.ZipCode) {
		errs["zipCode"] = "ZIP code is required"
	}
	if blank(d.Country) {
		errs["country"] = "Country is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NormaliseCardNumber strips the whitespace users type between digit groups.
func NormaliseCardNumber(number string) string {
	return strings.Join(strings.Fields(number), "")
}

// Redact returns a copy of d without the card number and CVV.
func Redact(d model.BillingDetails) model.BillingDetails {
	d.CardNumber = ""
	d.CVV = ""
	return d
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
