// internal/intake/create-application-record/models.go
package createapplicationrecord

import (
	"fmt"

	"tribe-intake/internal/models"
)

type Input struct {
	Applicant models.NewApplicant
}

type Output struct {
	Applicant models.Applicant
}

// DuplicateError names the unique key an insert collided with.
type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: unique key %s", ErrDuplicateApplication.Error(), e.Key)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateApplication
}
