package applicationform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Name:     "Jane Doe",
		Gender:   "Female",
		City:     "Lisbon",
		Country:  "Portugal",
		DOB:      "1990-05-14",
		Phone:    "+351 912 345 678",
		Email:    "jane@example.com",
		LinkedIn: "https://example.com/in/jane",
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	result := Validate(validDraft())

	require.True(t, result.Valid)
	require.NotNil(t, result.Payload)
	assert.Equal(t, validDraft(), *result.Payload)
	assert.Empty(t, result.FieldErrors)
}

func TestValidate_EmptyDraftReportsEveryField(t *testing.T) {
	result := Validate(Draft{})

	assert.False(t, result.Valid)
	assert.Nil(t, result.Payload)
	assert.Len(t, result.FieldErrors, 8)
	assert.Equal(t, "Date of birth is required.", result.FieldErrors["dob"])
	assert.Equal(t, "Name is required.", result.FieldErrors["name"])
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		field   string
		message string
	}{
		{"short name", func(d *Draft) { d.Name = "J" }, "name", "Name must be at least 2 characters."},
		{"bad email", func(d *Draft) { d.Email = "not-an-email" }, "email", "Please enter a valid email address."},
		{"bad url", func(d *Draft) { d.LinkedIn = "not-a-url" }, "linkedin", "Please enter a valid URL."},
		{"url without host", func(d *Draft) { d.LinkedIn = "https://" }, "linkedin", "Please enter a valid URL."},
		{"bare scheme", func(d *Draft) { d.LinkedIn = "https:" }, "linkedin", "Please enter a valid URL."},
		{"email double dot", func(d *Draft) { d.Email = "jane..doe@example.com" }, "email", "Please enter a valid email address."},
		{"bad date", func(d *Draft) { d.DOB = "14/05/1990" }, "dob", "Please enter a valid date of birth."},
		{"letters in phone", func(d *Draft) { d.Phone = "+351 phone 678" }, "phone", "Please enter a valid phone number."},
		{"short phone", func(d *Draft) { d.Phone = "12345" }, "phone", "Phone number must be at least 10 digits."},
		{"too many digits", func(d *Draft) { d.Phone = "+1234567890123456" }, "phone", "Phone number must contain between 7 and 15 digits."},
		{"too few digits", func(d *Draft) { d.Phone = "1 (23) 45--6" }, "phone", "Phone number must contain between 7 and 15 digits."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			result := Validate(draft)

			assert.False(t, result.Valid)
			assert.Equal(t, map[string]string{tt.field: tt.message}, result.FieldErrors)
		})
	}
}

func TestValidate_AcceptsFormattedPhones(t *testing.T) {
	for _, phone := range []string{"+1 (555) 010-0000", "0044 20 7946 0958", "5550100000"} {
		draft := validDraft()
		draft.Phone = phone
		assert.True(t, Validate(draft).Valid, phone)
	}
}

func TestValidateField(t *testing.T) {
	draft := Draft{Name: "Jane Doe", Email: "jane@"}

	msg, ok := ValidateField(draft, "name")
	assert.True(t, ok)
	assert.Empty(t, msg)

	msg, ok = ValidateField(draft, "email")
	assert.False(t, ok)
	assert.Equal(t, "Please enter a valid email address.", msg)

	msg, ok = ValidateField(draft, "phone")
	assert.False(t, ok)
	assert.Equal(t, "Phone number is required.", msg)
}

func TestValidator_SharedInstance(t *testing.T) {
	v, err := DefaultValidator()
	require.NoError(t, err)

	assert.True(t, v.Validate(validDraft()).Valid)
}
