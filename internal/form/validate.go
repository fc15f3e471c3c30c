package form

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	// Deliberately loose: anything@anything.anything. The record store is
	// the system of record for lead quality, not this form.
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// ValidateStep1 checks the contact fields. An empty map means all passed.
func ValidateStep1(data Data) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(data.FullName) == "" {
		errs[FieldFullName] = "Full Name is required"
	}

	phone := strings.TrimSpace(data.Phone)
	if phone == "" {
		errs[FieldPhone] = "Phone number is required"
	} else if !phonePattern.MatchString(phone) {
		errs[FieldPhone] = "Please enter a valid 10-digit phone number"
	}

	if data.Email == "" || !emailPattern.MatchString(data.Email) {
		errs[FieldEmail] = "Enter a valid email"
	}

	if data.BusinessType == "" || !IsValidOption(FieldBusinessType, data.BusinessType) {
		errs[FieldBusinessType] = "Please select your business type"
	}

	return errs
}

// ValidateStep2 checks the qualification selects.
func ValidateStep2(data Data) ValidationErrors {
	errs := ValidationErrors{}

	if data.InternationalPaymentHistory == "" || !IsValidOption(FieldPaymentHistory, data.InternationalPaymentHistory) {
		errs[FieldPaymentHistory] = "Please select an option"
	}
	if data.Volume == "" || !IsValidOption(FieldVolume, data.Volume) {
		errs[FieldVolume] = "Please select volume"
	}
	if data.Urgency == "" || !IsValidOption(FieldUrgency, data.Urgency) {
		errs[FieldUrgency] = "Please select timeframe"
	}

	return errs
}
