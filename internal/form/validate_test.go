package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validStep1Data() Data {
	return Data{
		FullName:     "Priya Shah",
		Phone:        "9876543210",
		Email:        "priya@exporters.in",
		BusinessType: "private_limited",
	}
}

func TestValidateStep1(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(*Data)
		wantFields []Field
	}{
		{
			name:       "all valid",
			mutate:     func(d *Data) {},
			wantFields: nil,
		},
		{
			name:       "blank name after trimming",
			mutate:     func(d *Data) { d.FullName = "   " },
			wantFields: []Field{FieldFullName},
		},
		{
			name:       "short phone",
			mutate:     func(d *Data) { d.Phone = "12345" },
			wantFields: []Field{FieldPhone},
		},
		{
			name:       "empty phone gets its own message",
			mutate:     func(d *Data) { d.Phone = "" },
			wantFields: []Field{FieldPhone},
		},
		{
			name:       "email without domain dot",
			mutate:     func(d *Data) { d.Email = "priya@exporters" },
			wantFields: []Field{FieldEmail},
		},
		{
			name:       "unknown business type key",
			mutate:     func(d *Data) { d.BusinessType = "ngo" },
			wantFields: []Field{FieldBusinessType},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			data := validStep1Data()
			tc.mutate(&data)

			errs := ValidateStep1(data)

			assert.Len(t, errs, len(tc.wantFields))
			for _, field := range tc.wantFields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestValidateStep1_AllInvalidYieldsFourErrors(t *testing.T) {
	errs := ValidateStep1(Data{
		FullName:     "",
		Phone:        "123",
		Email:        "bad",
		BusinessType: "",
	})

	assert.Len(t, errs, 4)
	assert.Equal(t, "Full Name is required", errs[FieldFullName])
	assert.Equal(t, "Please enter a valid 10-digit phone number", errs[FieldPhone])
	assert.Equal(t, "Enter a valid email", errs[FieldEmail])
	assert.Equal(t, "Please select your business type", errs[FieldBusinessType])
}

func TestValidateStep2(t *testing.T) {
	errs := ValidateStep2(Data{})
	assert.Len(t, errs, 3)
	assert.Equal(t, "Please select an option", errs[FieldPaymentHistory])
	assert.Equal(t, "Please select volume", errs[FieldVolume])
	assert.Equal(t, "Please select timeframe", errs[FieldUrgency])

	errs = ValidateStep2(Data{
		InternationalPaymentHistory: "regular",
		Volume:                      "tier3",
		Urgency:                     "1_month",
	})
	assert.Empty(t, errs)
}

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{"9876543210", "9876543210"},
		{"(987) 654-3210", "9876543210"},
		{"+91 98765 43210", "9198765432"},
		{"98765432101234", "9876543210"},
		{"abc", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		if actual := NormalizePhone(tc.raw); actual != tc.expected {
			t.Errorf("NormalizePhone(%q) = %q, expected %q", tc.raw, actual, tc.expected)
		}
	}
}
