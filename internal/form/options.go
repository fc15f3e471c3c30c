package form

// Option pairs a stored enum key with the human-readable label transmitted
// to the record store.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var fieldOptions = map[Field][]Option{
	FieldBusinessType: {
		{Key: "private_limited", Label: "Private Limited Company"},
		{Key: "llp", Label: "Limited Liability Partnership (LLP)"},
		{Key: "sole_proprietorship", Label: "Sole Proprietorship"},
		{Key: "freelancer", Label: "Freelancer"},
	},
	FieldPaymentHistory: {
		{Key: "regular", Label: "Yes, regularly"},
		{Key: "occasional", Label: "Yes, occasionally"},
		{Key: "new", Label: "No, but I need to start"},
		{Key: "exploring", Label: "Just exploring options"},
	},
	FieldVolume: {
		{Key: "tier1", Label: "Under $1,000"},
		{Key: "tier2", Label: "$1,000 - $10,000"},
		{Key: "tier3", Label: "$10,000 - $50,000"},
		{Key: "tier4", Label: "$50,000 - $100,000"},
		{Key: "tier5", Label: "Over $100,000"},
	},
	FieldUrgency: {
		{Key: "immediate", Label: "Immediately (within 1 week)"},
		{Key: "1_month", Label: "Within 1 month"},
		{Key: "3_months", Label: "Within 3 months"},
		{Key: "research", Label: "Just researching"},
	},
}

// Options returns the selectable options for an enum field, or nil for
// free-text fields.
func Options(field Field) []Option {
	return fieldOptions[field]
}

// Label translates an enum key to its readable label. Unknown keys pass
// through unchanged so a stale client cannot lose data.
func Label(field Field, key string) string {
	for _, opt := range fieldOptions[field] {
		if opt.Key == key {
			return opt.Label
		}
	}

	return key
}

// KeyForLabel performs the inverse lookup. Labels are unique within a field
// group, so the mapping is unambiguous.
func KeyForLabel(field Field, label string) (string, bool) {
	for _, opt := range fieldOptions[field] {
		if opt.Label == label {
			return opt.Key, true
		}
	}

	return "", false
}

// IsValidOption reports whether key is one of the field's enumerated keys.
func IsValidOption(field Field, key string) bool {
	for _, opt := range fieldOptions[field] {
		if opt.Key == key {
			return true
		}
	}

	return false
}
