// internal/intake/validate-application-data/models.go
package validateapplicationdata

import (
	"fmt"

	"tribe-intake/internal/common/validation"
	"tribe-intake/internal/models"
)

type Input struct {
	// Document is the decoded request body; anything but an object fails.
	Document interface{}
}

type Output struct {
	Applicant models.NewApplicant
}

type ValidationError = validation.ValidationError

// ValidationFailure carries every field issue of a rejected application.
type ValidationFailure struct {
	Errors []ValidationError
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("%s: %d validation errors", ErrApplicationValidationFailed.Error(), len(f.Errors))
}

func (f *ValidationFailure) Unwrap() error {
	return ErrApplicationValidationFailed
}
