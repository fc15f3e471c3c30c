package form

import "github.com/karbonfx/leadform/internal/attribution"

// Wire field names are the contract with the record store's table schema.
// Do not rename without migrating the table.
const (
	wireName               = "name"
	wirePhoneNumber        = "phone_number"
	wireEmail              = "email"
	wireBusinessType       = "business_type"
	wirePreviousExperience = "previous_experience"
	wireMonthlyVolume      = "monthly_volume"
	wireStartReceivingAt   = "start_receiving_at"
	wireSource             = "source"
	wireKeyword            = "keyword"
	wireIPAddress          = "ip_address"
	wireReferrer           = "referrer"
	wireUserAgent          = "user_agent"
	wireTimestamp          = "timestamp"
)

// BuildStep1Fields assembles the partial payload captured after step one.
// Enum keys are translated to readable labels and the phone number gets the
// fixed national prefix.
func BuildStep1Fields(data Data, attr attribution.Context, phonePrefix string) map[string]string {
	return map[string]string{
		wireName:         data.FullName,
		wirePhoneNumber:  phonePrefix + data.Phone,
		wireEmail:        data.Email,
		wireBusinessType: Label(FieldBusinessType, data.BusinessType),
		wireSource:       attr.Source,
		wireKeyword:      attr.Keyword,
		wireIPAddress:    attr.IP,
		wireReferrer:     attr.Referrer,
		wireUserAgent:    attr.UserAgent,
		wireTimestamp:    attr.Timestamp,
	}
}

// BuildCompleteFields assembles the full payload for the terminal commit,
// superset of the step-one payload.
func BuildCompleteFields(data Data, attr attribution.Context, phonePrefix string) map[string]string {
	fields := BuildStep1Fields(data, attr, phonePrefix)
	fields[wirePreviousExperience] = Label(FieldPaymentHistory, data.InternationalPaymentHistory)
	fields[wireMonthlyVolume] = Label(FieldVolume, data.Volume)
	fields[wireStartReceivingAt] = Label(FieldUrgency, data.Urgency)

	return fields
}
