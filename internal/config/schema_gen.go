package config

import (
	"encoding/json"
	"io"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema reflects ConfigSchema into a JSON schema usable by editors
// for playground.yaml completion
func GenerateJSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
	}

	schema := r.Reflect(&ConfigSchema{})
	schema.Title = "Playground Configuration Schema"
	schema.Description = "Templates, variables and model settings for the playground CLI"
	return schema
}

func WriteJSONSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(GenerateJSONSchema())
}
