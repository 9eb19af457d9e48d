package httpserver

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const ballSchema = "ball.schema.json"

// compileSchema loads one embedded schema. Formats such as uuid are asserted.
func compileSchema(name string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// validatePayload checks raw JSON against schema and then decodes it into dst.
func validatePayload(schema *jsonschema.Schema, raw []byte, dst any) error {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return badRequest("decode body: %v", err)
	}
	if err := schema.Validate(instance); err != nil {
		return badRequest("%v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return badRequest("decode body: %v", err)
	}
	return nil
}
