package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"tribe-intake/pkg/registry"
)

// Issue codes reported per field.
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidType     = "INVALID_TYPE"
	CodeMinLength       = "MIN_LENGTH_VIOLATION"
	CodePatternMismatch = "PATTERN_MISMATCH"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeInvalidValue    = "INVALID_VALUE"
)

// RootField names the document itself when it is not an object.
const RootField = "(root)"

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var codeByType = map[string]string{
	"required":     CodeMissingRequired,
	"invalid_type": CodeInvalidType,
	"string_gte":   CodeMinLength,
	"pattern":      CodePatternMismatch,
	"format":       CodeInvalidFormat,
}

var constraintByCode = map[string]string{
	CodeMissingRequired: registry.ConstraintRequired,
	CodeInvalidType:     registry.ConstraintType,
	CodeMinLength:       registry.ConstraintMinLength,
	CodePatternMismatch: registry.ConstraintPattern,
	CodeInvalidFormat:   registry.ConstraintFormat,
}

// codePriority orders issues within a field; lower reports first.
var codePriority = map[string]int{
	CodeMissingRequired: 0,
	CodeInvalidType:     1,
	CodeMinLength:       2,
	CodePatternMismatch: 3,
	CodeInvalidFormat:   4,
	CodeInvalidValue:    5,
}

// ValidateInput runs doc through the registry's compiled schema and collects
// every violated constraint. A required field that is absent, null or the
// empty string is reported once as MISSING_REQUIRED.
func ValidateInput(doc interface{}, reg *registry.Registry) *ValidationResult {
	result, err := reg.Schema().Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{
				Field:   RootField,
				Message: "Application could not be read.",
				Code:    CodeInvalidType,
			}},
		}
	}

	missing := emptyRequired(doc, reg)
	errs := make([]ValidationError, 0, len(result.Errors())+len(missing))
	for _, field := range reg.Fields() {
		if missing[field] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: reg.Message(field, registry.ConstraintRequired),
				Code:    CodeMissingRequired,
			})
		}
	}

	for _, re := range result.Errors() {
		field := fieldOf(re)
		if missing[field] {
			continue
		}
		if field == RootField {
			errs = append(errs, ValidationError{
				Field:   RootField,
				Message: "Application must be a JSON object.",
				Code:    CodeInvalidType,
			})
			continue
		}

		code, ok := codeByType[re.Type()]
		if !ok {
			errs = append(errs, ValidationError{Field: field, Message: re.Description(), Code: CodeInvalidValue})
			continue
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: reg.Message(field, constraintByCode[code]),
			Code:    code,
		})
	}

	sortErrors(errs, reg)
	return &ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func fieldOf(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok && prop != "" {
			return prop
		}
	}
	return re.Field()
}

func emptyRequired(doc interface{}, reg *registry.Registry) map[string]bool {
	missing := make(map[string]bool)
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return missing
	}
	for _, field := range reg.Fields() {
		if !reg.IsRequired(field) {
			continue
		}
		v, present := obj[field]
		if !present || v == nil {
			missing[field] = true
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			missing[field] = true
		}
	}
	return missing
}

func sortErrors(errs []ValidationError, reg *registry.Registry) {
	order := make(map[string]int)
	for i, f := range reg.Fields() {
		order[f] = i + 1
	}
	rank := func(field string) int {
		if field == RootField {
			return 0
		}
		if i, ok := order[field]; ok {
			return i
		}
		return len(order) + 1
	}
	sort.SliceStable(errs, func(i, j int) bool {
		ri, rj := rank(errs[i].Field), rank(errs[j].Field)
		if ri != rj {
			return ri < rj
		}
		if errs[i].Field != errs[j].Field {
			return errs[i].Field < errs[j].Field
		}
		return codePriority[errs[i].Code] < codePriority[errs[j].Code]
	})
}

// FieldMessages keeps the first message per field, which after sorting is
// the most fundamental violation.
func (vr *ValidationResult) FieldMessages() map[string]string {
	out := make(map[string]string, len(vr.Errors))
	for _, err := range vr.Errors {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
