// Package schema generates JSON Schema from tool input structs and validates
// request params against it before they are decoded.
//
// Field names come from the json tag. The jsonschema tag marks required
// fields and carries a description, which must be the last entry:
//
//	type clientInput struct {
//	    MAC string `json:"mac" jsonschema:"required,description=Client MAC, e.g. AA:BB:CC:DD:EE:FF"`
//	}
//
//	s, err := schema.Generate(clientInput{})
//	err = s.Validate(json.RawMessage(`{"mac": 42}`)) // mac: expected string, got number
//
// Validation covers JSON types and required fields only. Range checks such as
// clamping an out-of-range format belong to the tool handler.
package schema
