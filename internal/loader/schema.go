package loader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/narivia/internal/world"
)

//go:embed world.schema.json
var worldSchemaJSON string

var worldSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("world.schema.json", worldSchemaJSON)
})

// ParseMeta validates a world.yaml document against the world schema and
// decodes it.
func ParseMeta(data []byte) (world.Meta, error) {
	schema, err := worldSchema()
	if err != nil {
		return world.Meta{}, fmt.Errorf("compile world schema: %w", err)
	}

	// The validator works on JSON values, so round-trip the YAML document.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return world.Meta{}, fmt.Errorf("parse yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return world.Meta{}, fmt.Errorf("convert to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return world.Meta{}, fmt.Errorf("convert to json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return world.Meta{}, fmt.Errorf("validate: %w", err)
	}

	var meta world.Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return world.Meta{}, fmt.Errorf("decode: %w", err)
	}
	return meta, nil
}
