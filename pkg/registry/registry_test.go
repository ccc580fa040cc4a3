package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestApplicant_Compiles(t *testing.T) {
	reg, err := Applicant()
	require.NoError(t, err)
	require.NotNil(t, reg.Schema())

	again, err := Applicant()
	require.NoError(t, err)
	assert.Same(t, reg, again)

	assert.Equal(t, []string{"name", "gender", "city", "country", "dob", "phone", "email", "linkedin"}, reg.Fields())
	for _, f := range reg.Fields() {
		assert.True(t, reg.IsRequired(f), f)
	}
}

func TestRegistry_Message(t *testing.T) {
	reg, err := Applicant()
	require.NoError(t, err)

	assert.Equal(t, "Name must be at least 2 characters.", reg.Message(FieldName, ConstraintMinLength))
	assert.Equal(t, "Date of birth is required.", reg.Message(FieldDOB, ConstraintRequired))
	assert.Equal(t, "Please enter a valid phone number.", reg.Message(FieldPhone, ConstraintPattern))
	assert.Equal(t, "Please enter a valid email address.", reg.Message(FieldEmail, ConstraintFormat))

	assert.Equal(t, "Email must be text.", reg.Message(FieldEmail, ConstraintType))
	assert.Equal(t, "Email is too short.", reg.Message(FieldEmail, ConstraintMinLength))
	assert.Equal(t, "nickname is required.", reg.Message("nickname", ConstraintRequired))
}

func TestApplicantSchemaJSON_ReturnsCopy(t *testing.T) {
	a := ApplicantSchemaJSON()
	require.NotEmpty(t, a)
	a[0] = 'X'
	assert.NotEqual(t, a[0], ApplicantSchemaJSON()[0])
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "applicant.schema.json")
	require.NoError(t, os.WriteFile(path, ApplicantSchemaJSON(), 0o644))
	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, ApplicantSchemaJSON(), reg.Raw())

	_, err = LoadRegistry(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"type":"object","required":["a"],"properties":{"b":{"type":"string"}}}`), 0o644))
	_, err = LoadRegistry(bad)
	assert.ErrorContains(t, err, `required field "a"`)
}

func TestDigitCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"+1 (555) 010-2000", 11},
		{"abc", 0},
		{"+44 20 7946 0958", 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DigitCount(tt.in), tt.in)
	}
}

func TestParseBirthDate(t *testing.T) {
	d, err := ParseBirthDate("1990-05-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, time.May, 14, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseBirthDate("1990-05-14T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, time.May, 14, 0, 0, 0, 0, time.UTC), d)

	for _, in := range []string{"", "14/05/1990", "1990-13-01", "yesterday"} {
		_, err := ParseBirthDate(in)
		assert.Error(t, err, in)
	}
}

func TestFormatCheckers(t *testing.T) {
	assert.True(t, gojsonschema.FormatCheckers.IsFormat(FormatPhoneDigits, "+1 555 010 2000"))
	assert.False(t, gojsonschema.FormatCheckers.IsFormat(FormatPhoneDigits, "123456"))
	assert.False(t, gojsonschema.FormatCheckers.IsFormat(FormatPhoneDigits, "1234567890123456"))
	assert.True(t, gojsonschema.FormatCheckers.IsFormat(FormatContactEmail, "jane@example.com"))
	assert.False(t, gojsonschema.FormatCheckers.IsFormat(FormatContactEmail, "not-an-email"))
	assert.True(t, gojsonschema.FormatCheckers.IsFormat(FormatCalendarDate, "1990-05-14"))
	assert.False(t, gojsonschema.FormatCheckers.IsFormat(FormatCalendarDate, "not-a-date"))
}

func TestFormatCheckers_ContactEmail(t *testing.T) {
	for _, ok := range []string{"jane@example.com", "jane.doe+tribe@mail.example.co.uk", "o'neil@example.ie", "a-b_c@x-y.io"} {
		assert.True(t, gojsonschema.FormatCheckers.IsFormat(FormatContactEmail, ok), ok)
	}
	for _, bad := range []string{"a..b@example.com", ".a@example.com", "a.@example.com", "a@-x.com", "a@x-.com", "a@example", "@example.com"} {
		assert.False(t, gojsonschema.FormatCheckers.IsFormat(FormatContactEmail, bad), bad)
	}
}

func TestFormatCheckers_ProfileURL(t *testing.T) {
	for _, ok := range []string{"https://example.com/in/jane", "http://linkedin.com/in/jane?trk=x", "HTTPS://EXAMPLE.COM", "mailto:jane@example.com"} {
		assert.True(t, gojsonschema.FormatCheckers.IsFormat(FormatProfileURL, ok), ok)
	}
	for _, bad := range []string{"https://", "https:", "http:///in/jane", "not-a-url", "/in/jane", "", "https://exa mple.com"} {
		assert.False(t, gojsonschema.FormatCheckers.IsFormat(FormatProfileURL, bad), bad)
	}
	assert.True(t, gojsonschema.FormatCheckers.IsFormat(FormatProfileURL, 42))
}
