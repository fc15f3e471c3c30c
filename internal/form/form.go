// Package form owns the two-step signup wizard: its session model, step
// transitions, field validation and the wire payload sent to the record
// store.
package form

import "strings"

// Field identifies a single form field. Values match the field names the
// landing page posts.
type Field string

const (
	FieldFullName       Field = "fullName"
	FieldPhone          Field = "phone"
	FieldEmail          Field = "email"
	FieldBusinessType   Field = "businessType"
	FieldPaymentHistory Field = "internationalPaymentHistory"
	FieldVolume         Field = "volume"
	FieldUrgency        Field = "urgency"
)

// Data holds the visitor's answers for the lifetime of one form session.
// Phone is stored as bare digits, at most ten, without a country prefix.
type Data struct {
	FullName                    string `json:"full_name"`
	Phone                       string `json:"phone"`
	Email                       string `json:"email"`
	BusinessType                string `json:"business_type"`
	InternationalPaymentHistory string `json:"international_payment_history"`
	Volume                      string `json:"volume"`
	Urgency                     string `json:"urgency"`
}

// ValidationErrors maps a field to its human-readable message. A field
// absent from the map is valid.
type ValidationErrors map[Field]string

// Set merges a value into the data, normalizing where the field demands it.
// Unknown fields are ignored and reported via the return value.
func (d *Data) Set(field Field, value string) bool {
	switch field {
	case FieldFullName:
		d.FullName = value
	case FieldPhone:
		d.Phone = NormalizePhone(value)
	case FieldEmail:
		d.Email = value
	case FieldBusinessType:
		d.BusinessType = value
	case FieldPaymentHistory:
		d.InternationalPaymentHistory = value
	case FieldVolume:
		d.Volume = value
	case FieldUrgency:
		d.Urgency = value
	default:
		return false
	}

	return true
}

// NormalizePhone strips everything but ASCII digits and caps the result at
// ten characters, mirroring the input mask on the landing page.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}

	return b.String()
}
