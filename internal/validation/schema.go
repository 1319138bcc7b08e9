package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
	ErrSchemaUnknown    = errors.New("schema not registered")
)

// Names of the payload schemas shipped with the package.
const (
	SchemaCreateRequest = "create_request"
	SchemaComment       = "comment"
	SchemaAction        = "action"
	SchemaDraftUpdate   = "draft_update"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Schema string
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Validator checks API payloads against compiled JSON schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the embedded payload schemas.
func NewValidator() (*Validator, error) {
	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, entry := range entries {
		data, err := schemaFiles.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		if err := v.Register(name, data); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// MustValidator is NewValidator for package level initialisation.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Register compiles and installs a schema under name, replacing any previous one.
func (v *Validator) Register(name string, schema []byte) error {
	compiled, err := compileSchema(name+".json", schema)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	v.schemas[name] = compiled
	return nil
}

// Validate checks a decoded JSON payload against the named schema.
func (v *Validator) Validate(name string, payload any) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSchemaUnknown, name)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := schema.Validate(payload); err != nil {
		return &PayloadValidationError{Schema: name, Issues: Issues(err), Cause: err}
	}
	return nil
}

// ValidateJSON decodes raw JSON and validates it against the named schema.
func (v *Validator) ValidateJSON(name string, raw []byte) error {
	var payload any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return &PayloadValidationError{
				Schema: name,
				Issues: []ValidationIssue{{Location: "#", Message: "invalid JSON: " + err.Error()}},
				Cause:  err,
			}
		}
	}
	return v.Validate(name, payload)
}

func compileSchema(resource string, schema []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
