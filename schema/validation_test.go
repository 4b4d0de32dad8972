package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSchema_Validate(t *testing.T) {
	s := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"mac":      {Type: "string"},
			"format":   {Type: "integer"},
			"detailed": {Type: "boolean"},
			"ratio":    {Type: "number"},
			"dns":      {Type: "array", Items: &Schema{Type: "string"}},
		},
		Required: []string{"mac"},
	}

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "valid", data: `{"mac":"AA:BB:CC:DD:EE:FF","format":2,"detailed":true,"ratio":0.5,"dns":["8.8.8.8"]}`},
		{name: "extra fields ignored", data: `{"mac":"x","other":1}`},
		{name: "null optional", data: `{"mac":"x","format":null}`},
		{name: "missing required", data: `{}`, wantErr: "mac: required field is missing"},
		{name: "null required", data: `{"mac":null}`, wantErr: "mac: required field is missing"},
		{name: "wrong string", data: `{"mac":42}`, wantErr: "mac: expected string, got number"},
		{name: "decimal integer", data: `{"mac":"x","format":1.5}`, wantErr: "format: expected integer, got decimal number"},
		{name: "string integer", data: `{"mac":"x","format":"1"}`, wantErr: "format: expected integer, got string"},
		{name: "wrong boolean", data: `{"mac":"x","detailed":"yes"}`, wantErr: "detailed: expected boolean, got string"},
		{name: "wrong number", data: `{"mac":"x","ratio":true}`, wantErr: "ratio: expected number, got boolean"},
		{name: "array item", data: `{"mac":"x","dns":[1]}`, wantErr: "dns[0]: expected string, got number"},
		{name: "not array", data: `{"mac":"x","dns":"8.8.8.8"}`, wantErr: "dns: expected array, got string"},
		{name: "not object", data: `[1]`, wantErr: "expected object, got array"},
		{
			name:    "errors sorted by property",
			data:    `{"mac":"x","format":"a","detailed":1}`,
			wantErr: "detailed: expected boolean, got number; format: expected integer, got string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(json.RawMessage(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Validate() = %q, want %q", err.Error(), tt.wantErr)
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Errorf("error type = %T, want ValidationErrors", err)
			}
		})
	}
}

func TestSchema_ValidateInvalidJSON(t *testing.T) {
	err := (&Schema{Type: "object"}).Validate(json.RawMessage(`{`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
}

func TestSchema_ValidateGenerated(t *testing.T) {
	s, err := Generate(clientInput{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(json.RawMessage(`{"mac":"AA-BB-CC-DD-EE-FF"}`)); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := s.Validate(json.RawMessage(`{"mac":true}`)); err == nil {
		t.Error("Validate() = nil, want type error")
	}
}
