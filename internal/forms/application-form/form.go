// internal/forms/application-form/form.go
package applicationform

import (
	"fmt"

	"tribe-intake/internal/common/validation"
	"tribe-intake/pkg/registry"
)

// Draft is the form as the user is filling it in.
type Draft struct {
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	City     string `json:"city"`
	Country  string `json:"country"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
}

// Result is Valid with a Payload ready to post, or invalid with one
// message per failing field.
type Result struct {
	Valid       bool
	Payload     *Draft
	FieldErrors map[string]string
}

// Validator checks drafts against the shared applicant schema. It never
// touches the network.
type Validator struct {
	reg *registry.Registry
}

func NewValidator(reg *registry.Registry) *Validator {
	return &Validator{reg: reg}
}

// DefaultValidator uses the embedded applicant schema.
func DefaultValidator() (*Validator, error) {
	reg, err := registry.Applicant()
	if err != nil {
		return nil, fmt.Errorf("load applicant schema: %w", err)
	}
	return NewValidator(reg), nil
}

// Validate reports every failing field at once.
func (v *Validator) Validate(draft Draft) Result {
	vr := validation.ValidateInput(draft.document(), v.reg)
	if vr.Valid {
		payload := draft
		return Result{Valid: true, Payload: &payload}
	}
	return Result{FieldErrors: vr.FieldMessages()}
}

// ValidateField is the per-keystroke check for a single field. ok is true
// when that field has no problem, whatever state the others are in.
func (v *Validator) ValidateField(draft Draft, field string) (string, bool) {
	msg, failed := v.Validate(draft).FieldErrors[field]
	return msg, !failed
}

func (d Draft) document() map[string]interface{} {
	return map[string]interface{}{
		registry.FieldName:     d.Name,
		registry.FieldGender:   d.Gender,
		registry.FieldCity:     d.City,
		registry.FieldCountry:  d.Country,
		registry.FieldDOB:      d.DOB,
		registry.FieldPhone:    d.Phone,
		registry.FieldEmail:    d.Email,
		registry.FieldLinkedIn: d.LinkedIn,
	}
}

// Validate checks draft against the embedded applicant schema.
func Validate(draft Draft) Result {
	v, err := DefaultValidator()
	if err != nil {
		return Result{FieldErrors: map[string]string{validation.RootField: err.Error()}}
	}
	return v.Validate(draft)
}

// ValidateField checks one field against the embedded applicant schema.
func ValidateField(draft Draft, field string) (string, bool) {
	v, err := DefaultValidator()
	if err != nil {
		return err.Error(), false
	}
	return v.ValidateField(draft, field)
}
