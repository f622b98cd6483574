package config

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/Mefin-SR/FlowtrixGame/core"
)

var turnKindType = reflect.TypeOf(core.TurnStraight)

// Schema describes the TOML configuration file as JSON Schema
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		FieldNameTag:   "toml",
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t != turnKindType {
				return nil
			}
			enum := make([]any, 0, len(core.TurnKinds))
			for _, k := range core.TurnKinds {
				enum = append(enum, k.String())
			}
			return &jsonschema.Schema{Type: "string", Enum: enum}
		},
	}
	schema := reflector.Reflect(&Config{})
	schema.Title = "Flowtrix run configuration"
	schema.Description = "Tunables for track generation, content density, runner locomotion and outputs."
	return schema
}

// SchemaJSON renders Schema as indented JSON
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
