package registry

// SchemaDocument is the decoded form of an applicant schema file. Only the
// parts the registry needs are decoded; gojsonschema compiles the raw bytes.
type SchemaDocument struct {
	Schema      string               `json:"$schema"`
	ID          string               `json:"$id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        string               `json:"type"`
	Required    []string             `json:"required"`
	FieldOrder  []string             `json:"x-field-order"`
	Properties  map[string]FieldRule `json:"properties"`
}

type FieldRule struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	MinLength *int              `json:"minLength,omitempty"`
	Pattern   string            `json:"pattern,omitempty"`
	Format    string            `json:"format,omitempty"`
	Messages  map[string]string `json:"x-messages"`
}

// Constraint names used as keys in x-messages.
const (
	ConstraintRequired  = "required"
	ConstraintType      = "type"
	ConstraintMinLength = "minLength"
	ConstraintPattern   = "pattern"
	ConstraintFormat    = "format"
)

// Field names of the applicant document, as they appear on the wire.
const (
	FieldName     = "name"
	FieldGender   = "gender"
	FieldCity     = "city"
	FieldCountry  = "country"
	FieldDOB      = "dob"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldLinkedIn = "linkedin"
)
