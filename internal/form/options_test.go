package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Private Limited Company", Label(FieldBusinessType, "private_limited"))
	assert.Equal(t, "$10,000 - $50,000", Label(FieldVolume, "tier3"))

	// Unknown keys fall through untouched.
	assert.Equal(t, "something_else", Label(FieldBusinessType, "something_else"))
	assert.Equal(t, "free text", Label(FieldFullName, "free text"))
}

func TestLabelRoundTrip(t *testing.T) {
	for field, opts := range fieldOptions {
		seen := make(map[string]bool, len(opts))
		for _, opt := range opts {
			assert.False(t, seen[opt.Label], "duplicate label %q in %s", opt.Label, field)
			seen[opt.Label] = true

			key, ok := KeyForLabel(field, Label(field, opt.Key))
			assert.True(t, ok)
			assert.Equal(t, opt.Key, key)
		}
	}
}

func TestKeyForLabel_Unknown(t *testing.T) {
	_, ok := KeyForLabel(FieldVolume, "Over $9,000,000")
	assert.False(t, ok)
}

func TestIsValidOption(t *testing.T) {
	assert.True(t, IsValidOption(FieldUrgency, "immediate"))
	assert.False(t, IsValidOption(FieldUrgency, "someday"))
	assert.False(t, IsValidOption(FieldEmail, "anything"))
}
