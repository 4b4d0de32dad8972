package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	typeObject  = "object"
	typeArray   = "array"
	typeString  = "string"
	typeInteger = "integer"
	typeNumber  = "number"
	typeBoolean = "boolean"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Path    string // JSON path to the invalid field, e.g. "mac"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks JSON data against the schema. It returns nil when valid,
// a *ValidationError when the data is not JSON, and ValidationErrors
// otherwise. Errors are reported in property-name order.
func (s *Schema) Validate(data json.RawMessage) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &ValidationError{Message: fmt.Sprintf("invalid JSON: %s", err)}
	}

	var errs ValidationErrors
	s.validate("", value, &errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *Schema) validate(path string, value any, errs *ValidationErrors) {
	// null is accepted for every type; required-ness is checked on the parent.
	if value == nil {
		return
	}

	switch s.Type {
	case typeObject:
		s.validateObject(path, value, errs)
	case typeArray:
		s.validateArray(path, value, errs)
	case typeString:
		if _, ok := value.(string); !ok {
			errs.add(path, "expected string, got %s", jsonType(value))
		}
	case typeInteger:
		n, ok := value.(float64)
		if !ok {
			errs.add(path, "expected integer, got %s", jsonType(value))
		} else if n != math.Trunc(n) {
			errs.add(path, "expected integer, got decimal number")
		}
	case typeNumber:
		if _, ok := value.(float64); !ok {
			errs.add(path, "expected number, got %s", jsonType(value))
		}
	case typeBoolean:
		if _, ok := value.(bool); !ok {
			errs.add(path, "expected boolean, got %s", jsonType(value))
		}
	}
}

func (s *Schema) validateObject(path string, value any, errs *ValidationErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		errs.add(path, "expected object, got %s", jsonType(value))
		return
	}

	for _, req := range s.Required {
		if v, exists := obj[req]; !exists || v == nil {
			errs.add(joinPath(path, req), "required field is missing")
		}
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if val, exists := obj[name]; exists {
			s.Properties[name].validate(joinPath(path, name), val, errs)
		}
	}
}

func (s *Schema) validateArray(path string, value any, errs *ValidationErrors) {
	arr, ok := value.([]any)
	if !ok {
		errs.add(path, "expected array, got %s", jsonType(value))
		return
	}
	if s.Items == nil {
		return
	}
	for i, item := range arr {
		s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item, errs)
	}
}

func (e *ValidationErrors) add(path, format string, args ...any) {
	*e = append(*e, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return typeString
	case float64:
		return typeNumber
	case bool:
		return typeBoolean
	case []any:
		return typeArray
	case map[string]any:
		return typeObject
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
