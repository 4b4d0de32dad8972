// Package schema generates JSON Schema for tool inputs and validates
// request params against it.
package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Schema represents the subset of JSON Schema used for tool inputs.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Description string             `json:"description,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// Generate creates a JSON Schema from a Go value.
func Generate(v any) (*Schema, error) {
	return GenerateFromType(reflect.TypeOf(v))
}

// GenerateFromType creates a JSON Schema from a reflect.Type.
func GenerateFromType(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("schema: nil type")
	}
	return generateFromType(t)
}

func generateFromType(t reflect.Type) (*Schema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return generateStructSchema(t)
	case reflect.String:
		return &Schema{Type: typeString}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: typeInteger}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: typeNumber}, nil
	case reflect.Bool:
		return &Schema{Type: typeBoolean}, nil
	case reflect.Slice, reflect.Array:
		items, err := generateFromType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: typeArray, Items: items}, nil
	case reflect.Map:
		return &Schema{Type: typeObject}, nil
	default:
		return nil, fmt.Errorf("schema: unsupported kind %s", t.Kind())
	}
}

func generateStructSchema(t reflect.Type) (*Schema, error) {
	s := &Schema{
		Type:       typeObject,
		Properties: make(map[string]*Schema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := field.Name
		if n, _, _ := strings.Cut(jsonTag, ","); n != "" {
			name = n
		}

		fieldSchema, err := generateFromType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s: %w", field.Name, err)
		}
		if parseTag(field.Tag.Get("jsonschema"), fieldSchema) {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = fieldSchema
	}

	return s, nil
}

// parseTag applies a jsonschema struct tag and reports whether it marks the
// field required. description= must come last and runs to the end of the
// tag, so descriptions may contain commas.
func parseTag(tag string, s *Schema) (required bool) {
	for tag != "" {
		var part string
		if strings.HasPrefix(tag, "description=") {
			part, tag = tag, ""
		} else {
			part, tag, _ = strings.Cut(tag, ",")
		}
		part = strings.TrimSpace(part)

		switch {
		case part == "required":
			required = true
		case strings.HasPrefix(part, "description="):
			s.Description = strings.TrimPrefix(part, "description=")
		}
		tag = strings.TrimLeft(tag, " ")
	}
	return required
}
