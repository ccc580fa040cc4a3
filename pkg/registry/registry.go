package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed applicant.schema.json
var applicantSchema []byte

var (
	applicantOnce sync.Once
	applicantReg  *Registry
	applicantErr  error
)

// Registry holds one compiled applicant schema together with its decoded
// document, so callers can look up field order and user-facing messages.
type Registry struct {
	raw      []byte
	document SchemaDocument
	schema   *gojsonschema.Schema
}

// Applicant returns the registry for the embedded applicant schema. It is
// compiled on first use and shared afterwards.
func Applicant() (*Registry, error) {
	applicantOnce.Do(func() {
		applicantReg, applicantErr = compile(applicantSchema)
	})
	return applicantReg, applicantErr
}

// ApplicantSchemaJSON returns a copy of the embedded schema bytes.
func ApplicantSchemaJSON() []byte {
	out := make([]byte, len(applicantSchema))
	copy(out, applicantSchema)
	return out
}

func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compile(data)
}

func compile(data []byte) (*Registry, error) {
	var doc SchemaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if len(doc.Properties) == 0 {
		return nil, fmt.Errorf("schema %q declares no properties", doc.Title)
	}
	for _, name := range doc.Required {
		if _, ok := doc.Properties[name]; !ok {
			return nil, fmt.Errorf("required field %q is not declared in properties", name)
		}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Registry{raw: data, document: doc, schema: schema}, nil
}

func (r *Registry) Raw() []byte {
	return r.raw
}

func (r *Registry) Schema() *gojsonschema.Schema {
	return r.schema
}

func (r *Registry) Document() SchemaDocument {
	return r.document
}

// Fields lists the declared fields in form order. Fields missing from
// x-field-order follow in required order.
func (r *Registry) Fields() []string {
	seen := make(map[string]bool, len(r.document.Properties))
	fields := make([]string, 0, len(r.document.Properties))
	for _, list := range [][]string{r.document.FieldOrder, r.document.Required} {
		for _, name := range list {
			if _, ok := r.document.Properties[name]; !ok || seen[name] {
				continue
			}
			seen[name] = true
			fields = append(fields, name)
		}
	}
	return fields
}

func (r *Registry) IsRequired(field string) bool {
	for _, name := range r.document.Required {
		if name == field {
			return true
		}
	}
	return false
}

func (r *Registry) Rule(field string) (FieldRule, bool) {
	rule, ok := r.document.Properties[field]
	return rule, ok
}

// Message returns the user-facing message for a field and constraint,
// falling back to a generic sentence when the schema has none.
func (r *Registry) Message(field, constraint string) string {
	rule, ok := r.document.Properties[field]
	if ok {
		if msg, found := rule.Messages[constraint]; found && msg != "" {
			return msg
		}
	}

	label := field
	if ok && rule.Title != "" {
		label = rule.Title
	}
	switch constraint {
	case ConstraintRequired:
		return fmt.Sprintf("%s is required.", label)
	case ConstraintType:
		return fmt.Sprintf("%s has the wrong type.", label)
	case ConstraintMinLength:
		if ok && rule.MinLength != nil {
			return fmt.Sprintf("%s must be at least %d characters.", label, *rule.MinLength)
		}
		return fmt.Sprintf("%s is too short.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
