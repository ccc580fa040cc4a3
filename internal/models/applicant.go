// internal/models/applicant.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage layout of the birth date.
const DateLayout = "2006-01-02"

// NewApplicant is a validated, normalized application that has not been
// stored yet.
type NewApplicant struct {
	Name            string
	Gender          string
	City            string
	Country         string
	DateOfBirth     time.Time
	Phone           string
	Email           string
	LinkedInProfile string
}

// Applicant is a stored application. Records are never updated.
type Applicant struct {
	ID string
	NewApplicant
	CreatedAt time.Time
}

type applicantJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	City            string `json:"city"`
	Country         string `json:"country"`
	DateOfBirth     string `json:"dob"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	LinkedInProfile string `json:"linkedinProfile"`
	CreatedAt       string `json:"createdAt"`
}

func (a Applicant) MarshalJSON() ([]byte, error) {
	return json.Marshal(applicantJSON{
		ID:              a.ID,
		Name:            a.Name,
		Gender:          a.Gender,
		City:            a.City,
		Country:         a.Country,
		DateOfBirth:     a.DateOfBirth.Format(DateLayout),
		Phone:           a.Phone,
		Email:           a.Email,
		LinkedInProfile: a.LinkedInProfile,
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (a *Applicant) UnmarshalJSON(data []byte) error {
	var raw applicantJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dob, err := time.Parse(DateLayout, raw.DateOfBirth)
	if err != nil {
		return fmt.Errorf("applicant dob: %w", err)
	}
	var createdAt time.Time
	if raw.CreatedAt != "" {
		if createdAt, err = time.Parse(time.RFC3339, raw.CreatedAt); err != nil {
			return fmt.Errorf("applicant createdAt: %w", err)
		}
	}

	*a = Applicant{
		ID: raw.ID,
		NewApplicant: NewApplicant{
			Name:            raw.Name,
			Gender:          raw.Gender,
			City:            raw.City,
			Country:         raw.Country,
			DateOfBirth:     dob,
			Phone:           raw.Phone,
			Email:           raw.Email,
			LinkedInProfile: raw.LinkedInProfile,
		},
		CreatedAt: createdAt,
	}
	return nil
}
