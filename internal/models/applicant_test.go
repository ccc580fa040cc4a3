package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicant_MarshalJSON(t *testing.T) {
	a := Applicant{
		ID: "0b5f6c1e-3a57-4bd4-9f38-0a8f5b7e2d11",
		NewApplicant: NewApplicant{
			Name:            "Jane Doe",
			Gender:          "Female",
			City:            "Lisbon",
			Country:         "Portugal",
			DateOfBirth:     time.Date(1990, time.May, 14, 0, 0, 0, 0, time.UTC),
			Phone:           "+351 912 345 678",
			Email:           "jane@example.com",
			LinkedInProfile: "https://example.com/in/jane",
		},
		CreatedAt: time.Date(2026, time.October, 1, 9, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "0b5f6c1e-3a57-4bd4-9f38-0a8f5b7e2d11",
		"name": "Jane Doe",
		"gender": "Female",
		"city": "Lisbon",
		"country": "Portugal",
		"dob": "1990-05-14",
		"phone": "+351 912 345 678",
		"email": "jane@example.com",
		"linkedinProfile": "https://example.com/in/jane",
		"createdAt": "2026-10-01T09:30:00Z"
	}`, string(data))

	var back Applicant
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)
}

func TestApplicant_UnmarshalJSON_BadDate(t *testing.T) {
	var a Applicant
	err := json.Unmarshal([]byte(`{"id":"x","dob":"14/05/1990"}`), &a)
	assert.ErrorContains(t, err, "applicant dob")
}
