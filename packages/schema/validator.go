package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSchema is returned when a descriptor cannot be turned into a schema.
var ErrInvalidSchema = errors.New("invalid schema")

// typeNames are the JSON Schema primitive types accepted as shorthand.
var typeNames = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"boolean": true,
	"array":   true,
	"object":  true,
	"null":    true,
}

// Result is the outcome of validating one value.
type Result struct {
	Valid  bool
	Errors []string
}

// String joins the validation errors.
func (r *Result) String() string {
	if r == nil || r.Valid {
		return "valid"
	}
	return strings.Join(r.Errors, "; ")
}

type Validator struct {
	baseDir string
}

// ValidatorOption is a functional option for configuring a Validator.
type ValidatorOption func(*Validator)

// WithBaseDir sets the directory schema file paths are resolved against.
// Files outside of it are rejected.
func WithBaseDir(dir string) ValidatorOption {
	return func(v *Validator) {
		v.baseDir = dir
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Schema validates values against a compiled JSON Schema.
type Schema interface {
	Validate(value any) (*Result, error)
}

type compiledSchema struct {
	schema *gojsonschema.Schema
}

func (c *compiledSchema) Validate(value any) (*Result, error) {
	result, err := c.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return &Result{Valid: true}, nil
	}

	out := &Result{Errors: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, desc.String())
	}
	return out, nil
}

// Validate checks value against the schema described by descriptor.
func (v *Validator) Validate(value, descriptor any) (*Result, error) {
	compiled, err := v.Compile(descriptor)
	if err != nil {
		return nil, err
	}
	return compiled.Validate(value)
}

// Compile turns a descriptor into a reusable schema. A Schema passes
// through unchanged.
func (v *Validator) Compile(descriptor any) (Schema, error) {
	switch d := descriptor.(type) {
	case Schema:
		return d, nil
	case *gojsonschema.Schema:
		return &compiledSchema{schema: d}, nil
	}

	loader, err := v.loader(descriptor)
	if err != nil {
		return nil, err
	}

	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return &compiledSchema{schema: compiled}, nil
}

func (v *Validator) loader(descriptor any) (gojsonschema.JSONLoader, error) {
	switch d := descriptor.(type) {
	case nil:
		return nil, fmt.Errorf("%w: descriptor is nil", ErrInvalidSchema)
	case gojsonschema.JSONLoader:
		return d, nil
	case []byte:
		return gojsonschema.NewBytesLoader(d), nil
	case string:
		return v.stringLoader(d)
	default:
		return gojsonschema.NewGoLoader(d), nil
	}
}

func (v *Validator) stringLoader(s string) (gojsonschema.JSONLoader, error) {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("%w: descriptor is empty", ErrInvalidSchema)
	case typeNames[trimmed]:
		return gojsonschema.NewGoLoader(map[string]any{"type": trimmed}), nil
	case strings.HasPrefix(trimmed, "{"):
		return gojsonschema.NewStringLoader(trimmed), nil
	}

	schemaPath := trimmed
	if !filepath.IsAbs(schemaPath) && v.baseDir != "" {
		schemaPath = filepath.Join(v.baseDir, schemaPath)
	}

	if err := validatePathWithinBase(schemaPath, v.baseDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: failed to read schema file: %v", ErrInvalidSchema, err)
	}

	// A reference loader keeps relative $ref lookups working.
	return gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs)), nil
}

// validatePathWithinBase checks that the resolved path stays within the base directory
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}

	return nil
}
