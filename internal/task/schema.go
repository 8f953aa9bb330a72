package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskboard/internal/utils"
)

const taskSchema = `{
  "type": "object",
  "required": ["id", "title", "completed", "created_at"],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string"},
    "completed": {"type": "boolean"},
    "created_at": {"type": "string"}
  }
}`

var (
	listSchema = `{
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {"type": "array", "items": ` + taskSchema + `}
  }
}`
	createdSchema = `{
  "type": "object",
  "required": ["task"],
  "properties": {
    "task": ` + taskSchema + `
  }
}`
	statsSchema = `{
  "type": "object",
  "required": ["total", "completed", "pending"],
  "properties": {
    "total": {"type": "integer", "minimum": 0},
    "completed": {"type": "integer", "minimum": 0},
    "pending": {"type": "integer", "minimum": 0}
  }
}`
)

// ValidationError describes a payload that does not match its schema.
type ValidationError struct {
	Path string // dot-notation location inside the payload
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

type compiled struct {
	once   sync.Once
	url    string
	source string
	schema *jsonschema.Schema
	err    error
}

func (c *compiled) get() (*jsonschema.Schema, error) {
	c.once.Do(func() {
		c.schema, c.err = jsonschema.CompileString(c.url, c.source)
	})
	return c.schema, c.err
}

var (
	listCompiled    = &compiled{url: "taskboard://list.json", source: listSchema}
	createdCompiled = &compiled{url: "taskboard://created.json", source: createdSchema}
	statsCompiled   = &compiled{url: "taskboard://stats.json", source: statsSchema}
)

// ValidateList checks a GET /tasks response body.
func ValidateList(data []byte) error {
	return validate(listCompiled, data)
}

// ValidateCreated checks a POST /tasks response body.
func ValidateCreated(data []byte) error {
	return validate(createdCompiled, data)
}

// ValidateStats checks a GET /stats response body.
func ValidateStats(data []byte) error {
	return validate(statsCompiled, data)
}

func validate(c *compiled, data []byte) error {
	schema, err := c.get()
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", c.url, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := schema.Validate(doc); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

// firstSchemaError reduces a schema error tree to its first leaf.
func firstSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Err: err}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path: utils.JSONPointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}
